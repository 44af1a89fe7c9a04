// Package file keeps vetdesk's own state under HomeDir: config.toml for
// settings and a prompts/ folder of user-editable LLM prompts.
package file
