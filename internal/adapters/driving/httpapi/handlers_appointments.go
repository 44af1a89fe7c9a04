package httpapi

import (
	"net/http"
	"time"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

const dateLayout = "2006-01-02"

func (s *Server) checkAvailability(w http.ResponseWriter, r *http.Request, tenant *domain.Tenant) error {
	if s.ports.Appointments == nil {
		return notImplemented("appointments")
	}
	var body bookingRequestJSON
	if err := decode(r, &body); err != nil {
		return err
	}
	availability, err := s.ports.Appointments.CheckAvailability(r.Context(), body.toDomain(tenant.ID))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, availabilityFromDomain(*availability))
	return nil
}

// listAppointments serves ?date=YYYY-MM-DD (the tenant's local day, default
// today) or an explicit ?from=&to= RFC 3339 range.
func (s *Server) listAppointments(w http.ResponseWriter, r *http.Request, tenant *domain.Tenant) error {
	if s.ports.Appointments == nil {
		return notImplemented("appointments")
	}
	q := r.URL.Query()

	var (
		appts []domain.Appointment
		err   error
	)
	switch {
	case q.Get("from") != "" || q.Get("to") != "":
		from, ferr := time.Parse(time.RFC3339, q.Get("from"))
		if ferr != nil {
			return domain.Invalid("from", "expected RFC 3339 time")
		}
		to, terr := time.Parse(time.RFC3339, q.Get("to"))
		if terr != nil {
			return domain.Invalid("to", "expected RFC 3339 time")
		}
		appts, err = s.ports.Appointments.Range(r.Context(), tenant.ID, from, to)
	default:
		day := time.Now()
		if v := q.Get("date"); v != "" {
			if day, err = time.Parse(dateLayout, v); err != nil {
				return domain.Invalid("date", "expected YYYY-MM-DD")
			}
		} else if loc, lerr := tenant.Location(); lerr == nil {
			day = day.In(loc)
		}
		appts, err = s.ports.Appointments.Day(r.Context(), tenant.ID, day)
	}
	if err != nil {
		return err
	}

	if status := domain.AppointmentStatus(q.Get("status")); status != "" {
		filtered := appts[:0]
		for _, a := range appts {
			if a.Status == status {
				filtered = append(filtered, a)
			}
		}
		appts = filtered
	}
	writeJSON(w, http.StatusOK, mapSlice(appts, appointmentFromDomain))
	return nil
}

func (s *Server) bookAppointment(w http.ResponseWriter, r *http.Request, tenant *domain.Tenant) error {
	if s.ports.Appointments == nil {
		return notImplemented("appointments")
	}
	var body bookingRequestJSON
	if err := decode(r, &body); err != nil {
		return err
	}
	appt, err := s.ports.Appointments.Book(r.Context(), body.toDomain(tenant.ID))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, appointmentFromDomain(*appt))
	return nil
}

func (s *Server) getAppointment(w http.ResponseWriter, r *http.Request, tenant *domain.Tenant) error {
	if s.ports.Appointments == nil {
		return notImplemented("appointments")
	}
	appt, err := s.ports.Appointments.Get(r.Context(), tenant.ID, r.PathValue("id"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, appointmentFromDomain(*appt))
	return nil
}

func (s *Server) transitionAppointment(w http.ResponseWriter, r *http.Request, tenant *domain.Tenant) error {
	if s.ports.Appointments == nil {
		return notImplemented("appointments")
	}
	var body struct {
		Status domain.AppointmentStatus `json:"status"`
	}
	if err := decode(r, &body); err != nil {
		return err
	}
	appt, err := s.ports.Appointments.Transition(r.Context(), tenant.ID, r.PathValue("id"), body.Status)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, appointmentFromDomain(*appt))
	return nil
}

func (s *Server) rescheduleAppointment(w http.ResponseWriter, r *http.Request, tenant *domain.Tenant) error {
	if s.ports.Appointments == nil {
		return notImplemented("appointments")
	}
	var body struct {
		Start   time.Time `json:"start"`
		StaffID string    `json:"staff_id,omitempty"`
		RoomID  string    `json:"room_id,omitempty"`
	}
	if err := decode(r, &body); err != nil {
		return err
	}
	if body.Start.IsZero() {
		return domain.Invalid("start", "required")
	}
	appt, err := s.ports.Appointments.Reschedule(r.Context(), tenant.ID, r.PathValue("id"),
		body.Start, body.StaffID, body.RoomID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, appointmentFromDomain(*appt))
	return nil
}
