// Package driven lists what the services need from the outside world:
// persistence per aggregate, configuration, prompts, import parsers, an
// LLM and a calendar.
//
// Stores are always wired: sqlstore implements every one, and memory
// covers those the service tests need.
// LLMService and CalendarPublisher may be nil. Without an LLM the ai
// parser reports ErrLLMUnavailable; without a publisher appointments
// simply stay local and the calendar-push task does nothing.
//
// Stores take a tenant ID on every tenant-owned call and treat a row of
// another tenant as missing. Only domain may be imported here.
package driven
