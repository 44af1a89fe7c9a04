package services

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driving"
	"github.com/custodia-labs/vetdesk/internal/logger"
)

// Ensure SeedService implements the interface.
var _ driving.SeedService = (*SeedService)(nil)

//go:embed seeddata/demo.yaml
var demoFixture []byte

// seedEpoch is the CreatedAt of every seeded record, so re-seeding leaves it unchanged.
var seedEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// SeedStores groups the stores written by the seeder.
type SeedStores struct {
	Companies    driven.CompanyStore
	Tenants      driven.TenantStore
	Staff        driven.StaffStore
	Rooms        driven.RoomStore
	Services     driven.ServiceStore
	Clients      driven.ClientStore
	Pets         driven.PetStore
	Inventory    driven.InventoryStore
	Templates    driven.ReceiptStore
	Routes       driven.RouteStore
	PostalCodes  driven.PostalCodeStore
	Appointments driven.AppointmentStore
}

// SeedService loads the embedded demo dataset. Record IDs are derived
// from fixture keys, so every run upserts the same rows.
type SeedService struct {
	stores  SeedStores
	fixture []byte
	now     func() time.Time
}

// NewSeedService creates a seeder for the embedded demo dataset.
func NewSeedService(stores SeedStores) *SeedService {
	return &SeedService{stores: stores, fixture: demoFixture, now: time.Now}
}

// NewSeedServiceWithFixture creates a seeder for a custom YAML fixture.
func NewSeedServiceWithFixture(stores SeedStores, fixture []byte) *SeedService {
	s := NewSeedService(stores)
	s.fixture = fixture
	return s
}

type seedFixture struct {
	PostalCodes    []string            `yaml:"postal_codes"`
	RouteTemplates []seedRouteTemplate `yaml:"route_templates"`
	Companies      []seedCompany       `yaml:"companies"`
}

type seedRouteTemplate struct {
	Name    string `yaml:"name"`
	Weekday string `yaml:"weekday"`
	Window  string `yaml:"window"`
}

type seedCompany struct {
	Key     string       `yaml:"key"`
	Name    string       `yaml:"name"`
	TaxID   string       `yaml:"tax_id"`
	Plan    string       `yaml:"plan"`
	Tenants []seedTenant `yaml:"tenants"`
}

type seedTenant struct {
	Key          string            `yaml:"key"`
	Slug         string            `yaml:"slug"`
	Name         string            `yaml:"name"`
	Timezone     string            `yaml:"timezone"`
	SlotMinutes  int               `yaml:"slot_minutes"`
	Phone        string            `yaml:"phone"`
	Address      seedAddress       `yaml:"address"`
	Hours        map[string]string `yaml:"hours"`
	Staff        []seedStaff       `yaml:"staff"`
	Rooms        []seedRoom        `yaml:"rooms"`
	Services     []seedService     `yaml:"services"`
	Clients      []seedClient      `yaml:"clients"`
	Inventory    []seedItem        `yaml:"inventory"`
	Templates    []seedTemplate    `yaml:"templates"`
	Appointments []seedAppointment `yaml:"appointments"`
}

type seedAddress struct {
	Street     string `yaml:"street"`
	ExtNumber  string `yaml:"ext_number"`
	IntNumber  string `yaml:"int_number"`
	Colonia    string `yaml:"colonia"`
	PostalCode string `yaml:"postal_code"`
	City       string `yaml:"city"`
	State      string `yaml:"state"`
	References string `yaml:"references"`
}

func (a seedAddress) toAddress() domain.Address {
	return domain.Address(a)
}

type seedStaff struct {
	Key   string `yaml:"key"`
	Name  string `yaml:"name"`
	Role  string `yaml:"role"`
	Email string `yaml:"email"`
	Phone string `yaml:"phone"`
}

type seedRoom struct {
	Key  string `yaml:"key"`
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
}

type seedService struct {
	Key       string  `yaml:"key"`
	Name      string  `yaml:"name"`
	Category  string  `yaml:"category"`
	Minutes   int     `yaml:"minutes"`
	Price     float64 `yaml:"price"`
	StaffRole string  `yaml:"staff_role"`
	RoomKind  string  `yaml:"room_kind"`
}

type seedClient struct {
	Key       string      `yaml:"key"`
	FirstName string      `yaml:"first_name"`
	LastName  string      `yaml:"last_name"`
	Phone     string      `yaml:"phone"`
	Email     string      `yaml:"email"`
	Address   seedAddress `yaml:"address"`
	Pets      []seedPet   `yaml:"pets"`
}

type seedPet struct {
	Key       string  `yaml:"key"`
	Name      string  `yaml:"name"`
	Species   string  `yaml:"species"`
	Breed     string  `yaml:"breed"`
	Sex       string  `yaml:"sex"`
	BirthDate string  `yaml:"birth_date"`
	WeightKg  float64 `yaml:"weight_kg"`
	Neutered  bool    `yaml:"neutered"`
}

type seedItem struct {
	SKU      string  `yaml:"sku"`
	Name     string  `yaml:"name"`
	Category string  `yaml:"category"`
	Unit     string  `yaml:"unit"`
	Quantity float64 `yaml:"quantity"`
	MinStock float64 `yaml:"min_stock"`
	Cost     float64 `yaml:"cost"`
	Price    float64 `yaml:"price"`
	Supplier string  `yaml:"supplier"`
}

type seedTemplate struct {
	Key              string `yaml:"key"`
	Name             string `yaml:"name"`
	PaperSize        string `yaml:"paper_size"`
	BusinessName     string `yaml:"business_name"`
	LogoURL          string `yaml:"logo_url"`
	Address          string `yaml:"address"`
	Phone            string `yaml:"phone"`
	TaxID            string `yaml:"tax_id"`
	HeaderNote       string `yaml:"header_note"`
	FooterMarkdown   string `yaml:"footer_markdown"`
	AccentColor      string `yaml:"accent_color"`
	ShowPetName      bool   `yaml:"show_pet_name"`
	ShowStaffName    bool   `yaml:"show_staff_name"`
	ShowTaxBreakdown bool   `yaml:"show_tax_breakdown"`
	Default          bool   `yaml:"default"`
}

type seedAppointment struct {
	Key       string `yaml:"key"`
	Client    string `yaml:"client"`
	Pet       string `yaml:"pet"`
	Service   string `yaml:"service"`
	Staff     string `yaml:"staff"`
	Room      string `yaml:"room"`
	Kind      string `yaml:"kind"`
	DaysAhead int    `yaml:"days_ahead"`
	At        string `yaml:"at"`
	Notes     string `yaml:"notes"`
}

// seedID derives a stable UUID from a fixture path.
func seedID(parts ...string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("vetdesk:seed/"+strings.Join(parts, "/"))).String()
}

func pesos(v float64) int64 {
	return int64(math.Round(v * 100))
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "domingo": time.Sunday,
	"monday": time.Monday, "lunes": time.Monday,
	"tuesday": time.Tuesday, "martes": time.Tuesday,
	"wednesday": time.Wednesday, "miercoles": time.Wednesday,
	"thursday": time.Thursday, "jueves": time.Thursday,
	"friday": time.Friday, "viernes": time.Friday,
	"saturday": time.Saturday, "sabado": time.Saturday,
}

// ParseWeekday accepts English or Spanish day names, with or without accents.
func ParseWeekday(s string) (time.Weekday, error) {
	d, ok := weekdays[fold(s)]
	if !ok {
		return 0, domain.Invalid("weekday", "unknown day %q", s)
	}
	return d, nil
}

func (s *SeedService) load() (*seedFixture, error) {
	var f seedFixture
	if err := yaml.Unmarshal(s.fixture, &f); err != nil {
		return nil, fmt.Errorf("parsing seed fixture: %w", err)
	}
	return &f, nil
}

// Seed upserts the whole fixture.
func (s *SeedService) Seed(ctx context.Context) (*driving.SeedReport, error) {
	st := s.stores
	if st.Companies == nil || st.Tenants == nil || st.Staff == nil || st.Rooms == nil ||
		st.Services == nil || st.Clients == nil || st.Pets == nil {
		return nil, domain.ErrNotImplemented
	}
	f, err := s.load()
	if err != nil {
		return nil, err
	}
	report := &driving.SeedReport{}
	logger.Section("Seed")

	if s.stores.PostalCodes != nil && len(f.PostalCodes) > 0 {
		entries := make([]domain.PostalCode, 0, len(f.PostalCodes))
		for _, line := range f.PostalCodes {
			entry, ok := ParseSepomexLine(line)
			if !ok {
				return nil, fmt.Errorf("seed postal code %q: %w", line, domain.ErrInvalidInput)
			}
			entries = append(entries, entry)
		}
		if err := s.stores.PostalCodes.SaveBatch(ctx, entries); err != nil {
			return nil, fmt.Errorf("seeding postal codes: %w", err)
		}
		report.PostalCodes = len(entries)
	}

	for _, c := range f.Companies {
		company := domain.Company{
			ID:        seedID("company", c.Key),
			Name:      c.Name,
			TaxID:     c.TaxID,
			Plan:      domain.Plan(c.Plan),
			CreatedAt: seedEpoch,
			UpdatedAt: s.now().UTC(),
		}
		if company.Plan == "" {
			company.Plan = domain.PlanFree
		}
		if !company.Plan.IsValid() {
			return nil, fmt.Errorf("company %s: unknown plan %q: %w", c.Key, c.Plan, domain.ErrInvalidInput)
		}
		if err := s.stores.Companies.Save(ctx, company); err != nil {
			return nil, fmt.Errorf("seeding company %s: %w", c.Key, err)
		}
		report.Companies++

		for _, t := range c.Tenants {
			tenantID, err := s.seedTenant(ctx, company.ID, c.Key, t, report)
			if err != nil {
				return nil, fmt.Errorf("tenant %s/%s: %w", c.Key, t.Key, err)
			}
			if s.stores.Routes != nil {
				n, err := s.seedRoutes(ctx, tenantID, f.RouteTemplates)
				if err != nil {
					return nil, fmt.Errorf("tenant %s/%s routes: %w", c.Key, t.Key, err)
				}
				report.Routes += n
			}
		}
	}
	logger.Info("seeded %d companies, %d tenants, %d clients, %d appointments",
		report.Companies, report.Tenants, report.Clients, report.Appointments)
	return report, nil
}

func (s *SeedService) seedTenant(
	ctx context.Context,
	companyID, companyKey string,
	t seedTenant,
	report *driving.SeedReport,
) (string, error) {
	path := []string{companyKey, t.Key}
	id := func(kind string, key ...string) string {
		return seedID(append(append([]string{}, path...), append([]string{kind}, key...)...)...)
	}
	now := s.now().UTC()

	tenant := domain.Tenant{
		ID:          id("tenant"),
		CompanyID:   companyID,
		Slug:        t.Slug,
		Name:        t.Name,
		Timezone:    t.Timezone,
		SlotMinutes: t.SlotMinutes,
		Address:     t.Address.toAddress(),
		Phone:       t.Phone,
		CreatedAt:   seedEpoch,
		UpdatedAt:   now,
	}
	if len(t.Hours) > 0 {
		for day, spec := range t.Hours {
			wd, err := ParseWeekday(day)
			if err != nil {
				return "", err
			}
			hours, err := domain.ParseDayHours(spec)
			if err != nil {
				return "", err
			}
			tenant.Hours[wd] = hours
		}
	}
	applyTenantDefaults(&tenant)
	if err := validateTenant(&tenant); err != nil {
		return "", err
	}
	if err := s.stores.Tenants.Save(ctx, tenant); err != nil {
		return "", err
	}
	report.Tenants++

	staffIDs := make(map[string]string, len(t.Staff))
	staffByID := make(map[string]domain.Staff, len(t.Staff))
	for _, m := range t.Staff {
		member := domain.Staff{
			ID: id("staff", m.Key), TenantID: tenant.ID, Name: m.Name,
			Email: m.Email, Phone: m.Phone, Role: domain.Role(m.Role),
			Active: true, CreatedAt: seedEpoch, UpdatedAt: now,
		}
		if err := validateStaff(&member); err != nil {
			return "", fmt.Errorf("staff %s: %w", m.Key, err)
		}
		if err := s.stores.Staff.Save(ctx, member); err != nil {
			return "", err
		}
		staffIDs[m.Key] = member.ID
		staffByID[member.ID] = member
		report.Staff++
	}

	roomIDs := make(map[string]string, len(t.Rooms))
	rooms := make([]domain.Room, 0, len(t.Rooms))
	for _, r := range t.Rooms {
		room := domain.Room{
			ID: id("room", r.Key), TenantID: tenant.ID, Name: r.Name,
			Kind: domain.RoomKind(r.Kind), Active: true, CreatedAt: seedEpoch, UpdatedAt: now,
		}
		if err := validateRoom(&room); err != nil {
			return "", fmt.Errorf("room %s: %w", r.Key, err)
		}
		if err := s.stores.Rooms.Save(ctx, room); err != nil {
			return "", err
		}
		roomIDs[r.Key] = room.ID
		rooms = append(rooms, room)
		report.Rooms++
	}

	services := make(map[string]domain.Service, len(t.Services))
	for _, sv := range t.Services {
		svc := domain.Service{
			ID: id("service", sv.Key), TenantID: tenant.ID, Name: sv.Name, Category: sv.Category,
			DurationMinutes: sv.Minutes, PriceCents: pesos(sv.Price),
			StaffRole: domain.Role(sv.StaffRole), RoomKind: domain.RoomKind(sv.RoomKind),
			Active: true, CreatedAt: seedEpoch, UpdatedAt: now,
		}
		if err := validateService(&svc); err != nil {
			return "", fmt.Errorf("service %s: %w", sv.Key, err)
		}
		if err := s.stores.Services.Save(ctx, svc); err != nil {
			return "", err
		}
		services[sv.Key] = svc
		report.Services++
	}

	clients := make(map[string]domain.Client, len(t.Clients))
	petIDs := make(map[string]string)
	for _, c := range t.Clients {
		client := domain.Client{
			ID: id("client", c.Key), TenantID: tenant.ID, FirstName: c.FirstName, LastName: c.LastName,
			Phone: c.Phone, Email: c.Email, Address: c.Address.toAddress(),
			CreatedAt: seedEpoch, UpdatedAt: now,
		}
		if err := normaliseClient(&client); err != nil {
			return "", fmt.Errorf("client %s: %w", c.Key, err)
		}
		if err := s.stores.Clients.Save(ctx, client); err != nil {
			return "", err
		}
		clients[c.Key] = client
		report.Clients++

		for _, p := range c.Pets {
			pet := domain.Pet{
				ID: id("pet", c.Key, p.Key), TenantID: tenant.ID, ClientID: client.ID,
				Name: p.Name, Species: domain.Species(p.Species), Breed: p.Breed, Sex: p.Sex,
				WeightKg: p.WeightKg, Neutered: p.Neutered, CreatedAt: seedEpoch, UpdatedAt: now,
			}
			if p.BirthDate != "" {
				born, err := time.Parse(time.DateOnly, p.BirthDate)
				if err != nil {
					return "", fmt.Errorf("pet %s birth_date: %w", p.Key, domain.ErrInvalidInput)
				}
				pet.BirthDate = born
			}
			if !pet.Species.IsValid() {
				return "", fmt.Errorf("pet %s: unknown species %q: %w", p.Key, p.Species, domain.ErrInvalidInput)
			}
			if err := s.stores.Pets.Save(ctx, pet); err != nil {
				return "", err
			}
			petIDs[c.Key+"/"+p.Key] = pet.ID
			report.Pets++
		}
	}

	if err := s.seedInventory(ctx, tenant.ID, t.Inventory, report); err != nil {
		return "", err
	}
	if err := s.seedTemplates(ctx, tenant.ID, id, t.Templates, report); err != nil {
		return "", err
	}

	if s.stores.Appointments != nil {
		staff := make([]domain.Staff, 0, len(staffByID))
		for _, m := range t.Staff {
			staff = append(staff, staffByID[staffIDs[m.Key]])
		}
		for _, a := range t.Appointments {
			appt, err := s.seedAppointment(ctx, &tenant, id("appointment", a.Key), a, seedRefs{
				clients: clients, petIDs: petIDs, services: services,
				staffIDs: staffIDs, staff: staff, roomIDs: roomIDs, rooms: rooms,
			})
			if err != nil {
				return "", fmt.Errorf("appointment %s: %w", a.Key, err)
			}
			if appt != nil {
				if err := s.stores.Appointments.Save(ctx, *appt); err != nil {
					return "", err
				}
			}
			report.Appointments++
		}
	}
	return tenant.ID, nil
}

func (s *SeedService) seedInventory(ctx context.Context, tenantID string, items []seedItem, report *driving.SeedReport) error {
	if s.stores.Inventory == nil || len(items) == 0 {
		return nil
	}
	now := s.now().UTC()
	batch := make([]domain.InventoryItem, 0, len(items))
	for _, it := range items {
		item := domain.InventoryItem{
			TenantID: tenantID, SKU: it.SKU, Name: it.Name, Category: it.Category, Unit: it.Unit,
			Quantity: it.Quantity, MinStock: it.MinStock,
			CostCents: pesos(it.Cost), PriceCents: pesos(it.Price), Supplier: it.Supplier,
			CreatedAt: seedEpoch, UpdatedAt: now,
		}
		if err := normaliseItem(&item); err != nil {
			return fmt.Errorf("inventory %s: %w", it.SKU, err)
		}
		item.ID = seedID("inventory", tenantID, item.SKU)
		// Items imported before seeding keep their ID so the SKU stays unique.
		if existing, err := s.stores.Inventory.GetBySKU(ctx, tenantID, item.SKU); err == nil {
			item.ID = existing.ID
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		batch = append(batch, item)
	}
	if err := s.stores.Inventory.SaveBatch(ctx, batch); err != nil {
		return err
	}
	report.Inventory += len(batch)
	return nil
}

func (s *SeedService) seedTemplates(
	ctx context.Context,
	tenantID string,
	id func(string, ...string) string,
	templates []seedTemplate,
	report *driving.SeedReport,
) error {
	if s.stores.Templates == nil || len(templates) == 0 {
		return nil
	}
	now := s.now().UTC()
	defaultID := ""
	for _, st := range templates {
		tmpl := domain.ReceiptTemplate{
			ID: id("template", st.Key), TenantID: tenantID, Name: st.Name,
			PaperSize: domain.PaperSize(st.PaperSize), BusinessName: st.BusinessName,
			LogoURL: st.LogoURL, Address: st.Address, Phone: st.Phone, TaxID: st.TaxID,
			HeaderNote: st.HeaderNote, FooterMarkdown: st.FooterMarkdown, AccentColor: st.AccentColor,
			ShowPetName: st.ShowPetName, ShowStaffName: st.ShowStaffName, ShowTaxBreakdown: st.ShowTaxBreakdown,
			IsDefault: st.Default, CreatedAt: seedEpoch, UpdatedAt: now,
		}
		if err := validateTemplate(&tmpl); err != nil {
			return fmt.Errorf("template %s: %w", st.Key, err)
		}
		if err := s.stores.Templates.Save(ctx, tmpl); err != nil {
			return err
		}
		if tmpl.IsDefault {
			defaultID = tmpl.ID
		}
		report.Templates++
	}
	if defaultID == "" {
		return nil
	}
	all, err := s.stores.Templates.List(ctx, tenantID)
	if err != nil {
		return err
	}
	for i := range all {
		if all[i].IsDefault && all[i].ID != defaultID {
			all[i].IsDefault = false
			if err := s.stores.Templates.Save(ctx, all[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

type seedRefs struct {
	clients  map[string]domain.Client
	petIDs   map[string]string
	services map[string]domain.Service
	staffIDs map[string]string
	staff    []domain.Staff
	roomIDs  map[string]string
	rooms    []domain.Room
}

// seedAppointment builds a demo appointment a few open days ahead. An
// appointment that already exists is left alone and nil is returned.
func (s *SeedService) seedAppointment(
	ctx context.Context,
	tenant *domain.Tenant,
	id string,
	a seedAppointment,
	refs seedRefs,
) (*domain.Appointment, error) {
	if _, err := s.stores.Appointments.Get(ctx, tenant.ID, id); err == nil {
		return nil, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	client, ok := refs.clients[a.Client]
	if !ok {
		return nil, fmt.Errorf("unknown client %q: %w", a.Client, domain.ErrInvalidInput)
	}
	petID, ok := refs.petIDs[a.Client+"/"+a.Pet]
	if !ok {
		return nil, fmt.Errorf("unknown pet %q: %w", a.Pet, domain.ErrInvalidInput)
	}
	svc, ok := refs.services[a.Service]
	if !ok {
		return nil, fmt.Errorf("unknown service %q: %w", a.Service, domain.ErrInvalidInput)
	}
	at, err := domain.ParseClock(a.At)
	if err != nil {
		return nil, err
	}
	loc, err := tenant.Location()
	if err != nil {
		return nil, err
	}

	day := s.now().In(loc)
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, max(a.DaysAhead, 1))
	for i := 0; i < 7 && !tenant.Hours[day.Weekday()].Contains(at, at+svc.DurationMinutes); i++ {
		day = day.AddDate(0, 0, 1)
	}
	start := day.Add(time.Duration(at) * time.Minute).UTC()

	kind := domain.AppointmentKind(a.Kind)
	if kind == "" {
		kind = domain.KindClinic
	}
	appt := &domain.Appointment{
		ID: id, TenantID: tenant.ID, ClientID: client.ID, PetID: petID, ServiceID: svc.ID,
		Kind: kind, Status: domain.StatusScheduled,
		Start: start, End: start.Add(svc.Duration()), Notes: a.Notes,
		CreatedAt: s.now().UTC(), UpdatedAt: s.now().UTC(),
	}
	if kind == domain.KindHomeVisit {
		appt.Address = client.Address
	}
	appt.StaffID = refs.staffIDs[a.Staff]
	if appt.StaffID == "" && svc.StaffRole != "" {
		if i := slices.IndexFunc(refs.staff, func(m domain.Staff) bool { return m.Role == svc.StaffRole }); i >= 0 {
			appt.StaffID = refs.staff[i].ID
		}
	}
	if kind != domain.KindHomeVisit {
		appt.RoomID = refs.roomIDs[a.Room]
		if appt.RoomID == "" && svc.RoomKind != "" {
			if i := slices.IndexFunc(refs.rooms, func(r domain.Room) bool { return r.Kind == svc.RoomKind }); i >= 0 {
				appt.RoomID = refs.rooms[i].ID
			}
		}
	}
	return appt, nil
}

// SeedRoutes creates the template delivery routes for a tenant, splitting
// its clients across them in postal code order.
func (s *SeedService) SeedRoutes(ctx context.Context, tenantID string) (int, error) {
	if s.stores.Routes == nil || s.stores.Clients == nil {
		return 0, domain.ErrNotImplemented
	}
	if s.stores.Tenants != nil {
		if _, err := s.stores.Tenants.Get(ctx, tenantID); err != nil {
			return 0, fmt.Errorf("tenant %q: %w", tenantID, err)
		}
	}
	f, err := s.load()
	if err != nil {
		return 0, err
	}
	return s.seedRoutes(ctx, tenantID, f.RouteTemplates)
}

func (s *SeedService) seedRoutes(ctx context.Context, tenantID string, templates []seedRouteTemplate) (int, error) {
	if len(templates) == 0 {
		return 0, nil
	}
	clients, err := s.stores.Clients.List(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	clients = slices.DeleteFunc(slices.Clone(clients), func(c domain.Client) bool { return c.Address.IsZero() })
	if len(clients) == 0 {
		return 0, nil
	}
	slices.SortStableFunc(clients, func(a, b domain.Client) int {
		if c := strings.Compare(a.Address.PostalCode, b.Address.PostalCode); c != 0 {
			return c
		}
		return strings.Compare(fold(a.Address.Colonia), fold(b.Address.Colonia))
	})

	driverID := ""
	if s.stores.Staff != nil {
		staff, err := s.stores.Staff.List(ctx, tenantID)
		if err != nil {
			return 0, err
		}
		if i := slices.IndexFunc(staff, func(m domain.Staff) bool { return m.Active && m.Role == domain.RoleDriver }); i >= 0 {
			driverID = staff[i].ID
		}
	}

	routes := NewRouteService(s.stores.Routes, s.stores.Staff, s.stores.Clients)
	routes.now = s.now
	existing, err := s.stores.Routes.List(ctx, tenantID)
	if err != nil {
		return 0, err
	}

	per := (len(clients) + len(templates) - 1) / len(templates)
	created := 0
	for i, tmpl := range templates {
		if slices.ContainsFunc(existing, func(r domain.DeliveryRoute) bool { return strings.EqualFold(r.Name, tmpl.Name) }) {
			continue
		}
		lo := min(i*per, len(clients))
		hi := min(lo+per, len(clients))
		if lo == hi {
			continue
		}
		weekday, err := ParseWeekday(tmpl.Weekday)
		if err != nil {
			return created, err
		}
		window, err := domain.ParseDayHours(tmpl.Window)
		if err != nil {
			return created, err
		}
		route := domain.DeliveryRoute{
			ID:       seedID("route", tenantID, fold(tmpl.Name)),
			TenantID: tenantID,
			Name:     tmpl.Name,
			Weekday:  weekday,
			DriverID: driverID,
		}
		for _, c := range clients[lo:hi] {
			route.Stops = append(route.Stops, domain.RouteStop{
				ClientID:    c.ID,
				WindowStart: window.Open,
				WindowEnd:   window.Close,
			})
		}
		if _, err := routes.Create(ctx, route); err != nil {
			return created, fmt.Errorf("route %q: %w", tmpl.Name, err)
		}
		created++
	}
	return created, nil
}
