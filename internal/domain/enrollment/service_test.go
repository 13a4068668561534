package enrollment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/orthowatch/orthowatch/internal/domain/alert"
	"github.com/orthowatch/orthowatch/internal/domain/audit"
	"github.com/orthowatch/orthowatch/internal/domain/episode"
	"github.com/orthowatch/orthowatch/internal/domain/identity"
	"github.com/orthowatch/orthowatch/internal/domain/template"
)

type memPatients struct {
	byID      map[uuid.UUID]*identity.Patient
	creates   int
	updates   int
	createErr error
}

func newMemPatients() *memPatients {
	return &memPatients{byID: make(map[uuid.UUID]*identity.Patient)}
}

func (m *memPatients) Create(_ context.Context, p *identity.Patient) error {
	if m.createErr != nil {
		return m.createErr
	}
	p.ID = uuid.New()
	cp := *p
	m.byID[p.ID] = &cp
	m.creates++
	return nil
}

func (m *memPatients) GetByID(_ context.Context, id uuid.UUID) (*identity.Patient, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (m *memPatients) GetByPhone(_ context.Context, phone string) (*identity.Patient, error) {
	for _, p := range m.byID {
		if p.PhonePrimary == phone {
			cp := *p
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memPatients) Update(_ context.Context, p *identity.Patient) error {
	if _, ok := m.byID[p.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *p
	m.byID[p.ID] = &cp
	m.updates++
	return nil
}

type memUsers struct {
	byID map[uuid.UUID]*identity.User
}

func newMemUsers() *memUsers {
	return &memUsers{byID: make(map[uuid.UUID]*identity.User)}
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*identity.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type memTemplates struct {
	bySurgeryType map[string]*template.RecoveryTemplate
}

func newMemTemplates() *memTemplates {
	return &memTemplates{bySurgeryType: make(map[string]*template.RecoveryTemplate)}
}

func (m *memTemplates) Create(_ context.Context, t *template.RecoveryTemplate) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	m.bySurgeryType[t.SurgeryType] = t
	return nil
}

func (m *memTemplates) GetActiveBySurgeryType(_ context.Context, surgeryType string) (*template.RecoveryTemplate, error) {
	t, ok := m.bySurgeryType[surgeryType]
	if !ok || !t.IsActive {
		return nil, pgx.ErrNoRows
	}
	cp := *t
	return &cp, nil
}

type memEpisodes struct {
	byID map[uuid.UUID]*episode.Episode
	// active episodes keyed patientID then surgery type, maintained by
	// tests and by Create via surgeryByTemplate
	active            map[uuid.UUID]map[string]bool
	surgeryByTemplate map[uuid.UUID]string
	createErr         error
}

func newMemEpisodes() *memEpisodes {
	return &memEpisodes{
		byID:              make(map[uuid.UUID]*episode.Episode),
		active:            make(map[uuid.UUID]map[string]bool),
		surgeryByTemplate: make(map[uuid.UUID]string),
	}
}

func (m *memEpisodes) Create(_ context.Context, e *episode.Episode) error {
	if m.createErr != nil {
		return m.createErr
	}
	e.ID = uuid.New()
	cp := *e
	m.byID[e.ID] = &cp
	if e.Status == episode.StatusActive {
		st := m.surgeryByTemplate[e.TemplateID]
		if m.active[e.PatientID] == nil {
			m.active[e.PatientID] = make(map[string]bool)
		}
		m.active[e.PatientID][st] = true
	}
	return nil
}

func (m *memEpisodes) GetByID(_ context.Context, id uuid.UUID) (*episode.Episode, error) {
	e, ok := m.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *e
	return &cp, nil
}

func (m *memEpisodes) ExistsActiveForSurgeryType(_ context.Context, patientID uuid.UUID, surgeryType string) (bool, error) {
	return m.active[patientID][surgeryType], nil
}

func (m *memEpisodes) SetConsentStatus(_ context.Context, id uuid.UUID, status string) error {
	e, ok := m.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	e.ConsentStatus = status
	return nil
}

type memConsents struct {
	rows []*episode.ConsentLog
}

func (m *memConsents) Create(_ context.Context, cl *episode.ConsentLog) error {
	cl.ID = uuid.New()
	cp := *cl
	m.rows = append(m.rows, &cp)
	return nil
}

type memAlerts struct {
	rows []*alert.Alert
}

func (m *memAlerts) Create(_ context.Context, a *alert.Alert) error {
	a.ID = uuid.New()
	cp := *a
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *memAlerts) ExistsForEpisode(_ context.Context, episodeID uuid.UUID, alertType string) (bool, error) {
	for _, a := range m.rows {
		if a.EpisodeID == episodeID && a.AlertType == alertType {
			return true, nil
		}
	}
	return false, nil
}

type memAudits struct {
	rows []*audit.ClinicalAuditLog
}

func (m *memAudits) Create(_ context.Context, entry *audit.ClinicalAuditLog) error {
	entry.ID = uuid.New()
	cp := *entry
	m.rows = append(m.rows, &cp)
	return nil
}

type scheduledTask struct {
	taskType   string
	resourceID uuid.UUID
	delay      time.Duration
}

type memScheduler struct {
	calls []scheduledTask
	err   error
}

func (m *memScheduler) ScheduleOnce(_ context.Context, taskType string, resourceID uuid.UUID, delay time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.calls = append(m.calls, scheduledTask{taskType, resourceID, delay})
	return nil
}

type fixture struct {
	svc       *Service
	patients  *memPatients
	users     *memUsers
	templates *memTemplates
	episodes  *memEpisodes
	consents  *memConsents
	alerts    *memAlerts
	audits    *memAudits
	scheduler *memScheduler

	surgeonID uuid.UUID
	nurseID   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		patients:  newMemPatients(),
		users:     newMemUsers(),
		templates: newMemTemplates(),
		episodes:  newMemEpisodes(),
		consents:  &memConsents{},
		alerts:    &memAlerts{},
		audits:    &memAudits{},
		scheduler: &memScheduler{},
		surgeonID: uuid.New(),
		nurseID:   uuid.New(),
	}

	f.users.byID[f.surgeonID] = &identity.User{
		ID: f.surgeonID, Email: "surgeon@hospital.in", FullName: "Dr. Mehta",
		Role: identity.RoleSurgeon, IsActive: true,
	}
	f.users.byID[f.nurseID] = &identity.User{
		ID: f.nurseID, Email: "nurse@hospital.in", FullName: "Nurse Rao",
		Role: identity.RoleNurse, IsActive: true,
	}

	tkr := &template.RecoveryTemplate{
		SurgeryType: "TKR", DisplayName: "Total Knee Replacement",
		MonitoringDays: 14, IsActive: true, CreatedBy: f.surgeonID,
	}
	if err := f.templates.Create(context.Background(), tkr); err != nil {
		t.Fatalf("seed template: %v", err)
	}
	f.episodes.surgeryByTemplate[tkr.ID] = "TKR"

	f.svc = NewService(nil, Deps{
		Patients:  f.patients,
		Users:     f.users,
		Templates: f.templates,
		Episodes:  f.episodes,
		Consents:  f.consents,
		Audits:    f.audits,
		Scheduler: f.scheduler,
	}, 24*time.Hour, zerolog.Nop())

	return f
}

func validRequest(f *fixture) *Request {
	pain := 6
	return &Request{
		PatientName:            "Ramesh Kumar",
		Age:                    64,
		PhonePrimary:           "+919876543210",
		SurgeryType:            "TKR",
		SurgeryDate:            "2026-02-13",
		DischargeDate:          "2026-02-15",
		PrimarySurgeonID:       f.surgeonID,
		PainScoreDischarge:     &pain,
		SwellingLevelDischarge: "MODERATE",
	}
}

func TestEnroll_NewPatient(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.Enroll(context.Background(), validRequest(f), f.nurseID, "10.0.0.5", "test-agent")
	if err != nil {
		t.Fatalf("enroll failed: %v", err)
	}

	if res.Status != "ACTIVE" {
		t.Errorf("status = %q, want ACTIVE", res.Status)
	}
	if res.ConsentStatus != "PENDING" {
		t.Errorf("consent status = %q, want PENDING", res.ConsentStatus)
	}
	if res.Message != "Patient enrolled. Consent message sent via WhatsApp." {
		t.Errorf("unexpected message: %q", res.Message)
	}

	if f.patients.creates != 1 {
		t.Fatalf("patient creates = %d, want 1", f.patients.creates)
	}
	p, err := f.patients.GetByID(context.Background(), res.PatientID)
	if err != nil {
		t.Fatalf("patient not stored: %v", err)
	}
	if p.PreferredLanguage != "en" {
		t.Errorf("preferred language = %q, want default en", p.PreferredLanguage)
	}

	ep, err := f.episodes.GetByID(context.Background(), res.EpisodeID)
	if err != nil {
		t.Fatalf("episode not stored: %v", err)
	}
	if ep.PatientID != res.PatientID {
		t.Errorf("episode patient = %s, want %s", ep.PatientID, res.PatientID)
	}
	if ep.PrimarySurgeonID != f.surgeonID {
		t.Errorf("episode surgeon = %s, want %s", ep.PrimarySurgeonID, f.surgeonID)
	}
	if ep.PainScoreDischarge != 6 || ep.SwellingLevelDischarge != "MODERATE" {
		t.Errorf("discharge baseline not carried: pain=%d swelling=%q", ep.PainScoreDischarge, ep.SwellingLevelDischarge)
	}
	if ep.ChecklistTime != "09:00" || ep.Timezone != "Asia/Kolkata" {
		t.Errorf("episode defaults wrong: checklist=%q tz=%q", ep.ChecklistTime, ep.Timezone)
	}
}

func TestEnroll_ConsentAndAuditTrail(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.Enroll(context.Background(), validRequest(f), f.nurseID, "10.0.0.5", "test-agent")
	if err != nil {
		t.Fatalf("enroll failed: %v", err)
	}

	if len(f.consents.rows) != 1 {
		t.Fatalf("consent rows = %d, want 1", len(f.consents.rows))
	}
	cl := f.consents.rows[0]
	if cl.EpisodeID != res.EpisodeID || cl.PatientID != res.PatientID {
		t.Errorf("consent row references wrong episode/patient")
	}
	if cl.ConsentType != "MONITORING" || cl.Method != "WHATSAPP" {
		t.Errorf("consent row type=%q method=%q", cl.ConsentType, cl.Method)
	}
	if cl.Status != "GRANTED" {
		t.Errorf("consent row status = %q, want GRANTED", cl.Status)
	}
	if cl.GrantedAt != nil {
		t.Errorf("granted_at should stay null until the patient replies")
	}
	if cl.ConsentText != ConsentText {
		t.Errorf("consent text not recorded verbatim")
	}

	if len(f.audits.rows) != 1 {
		t.Fatalf("audit rows = %d, want 1", len(f.audits.rows))
	}
	entry := f.audits.rows[0]
	if entry.Action != "ENROLL_PATIENT" {
		t.Errorf("audit action = %q", entry.Action)
	}
	if entry.UserID != f.nurseID {
		t.Errorf("audit actor = %s, want %s", entry.UserID, f.nurseID)
	}
	if entry.ResourceType == nil || *entry.ResourceType != "EPISODE" {
		t.Errorf("audit resource type wrong")
	}
	if entry.ResourceID == nil || *entry.ResourceID != res.EpisodeID {
		t.Errorf("audit resource id wrong")
	}
	if entry.Details["patientName"] != "Ramesh Kumar" || entry.Details["surgeryType"] != "TKR" {
		t.Errorf("audit details incomplete: %v", entry.Details)
	}
	if entry.Details["patientId"] != res.PatientID.String() {
		t.Errorf("audit details patientId = %v", entry.Details["patientId"])
	}
	if entry.IPAddress == nil || *entry.IPAddress != "10.0.0.5" {
		t.Errorf("audit ip not recorded")
	}
}

func TestEnroll_SchedulesConsentTimeout(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.Enroll(context.Background(), validRequest(f), f.nurseID, "", "")
	if err != nil {
		t.Fatalf("enroll failed: %v", err)
	}

	if len(f.scheduler.calls) != 1 {
		t.Fatalf("scheduled tasks = %d, want 1", len(f.scheduler.calls))
	}
	call := f.scheduler.calls[0]
	if call.taskType != TaskConsentTimeout {
		t.Errorf("task type = %q, want %q", call.taskType, TaskConsentTimeout)
	}
	if call.resourceID != res.EpisodeID {
		t.Errorf("task resource = %s, want episode %s", call.resourceID, res.EpisodeID)
	}
	if call.delay != 24*time.Hour {
		t.Errorf("task delay = %v, want 24h", call.delay)
	}
}

func TestEnroll_SchedulingFailureDoesNotFailEnrollment(t *testing.T) {
	f := newFixture(t)
	f.scheduler.err = errors.New("queue unavailable")

	res, err := f.svc.Enroll(context.Background(), validRequest(f), f.nurseID, "", "")
	if err != nil {
		t.Fatalf("enroll failed: %v", err)
	}
	if res.EpisodeID == uuid.Nil {
		t.Errorf("episode should still be created")
	}
	if len(f.episodes.byID) != 1 {
		t.Errorf("episode not persisted")
	}
}

func TestEnroll_DateOrderRejected(t *testing.T) {
	f := newFixture(t)
	req := validRequest(f)
	req.SurgeryDate = "2026-02-16"
	req.DischargeDate = "2026-02-15"

	_, err := f.svc.Enroll(context.Background(), req, f.nurseID, "", "")
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	if ve.Message != "Surgery date must be on or before discharge date" {
		t.Errorf("message = %q", ve.Message)
	}
	if f.patients.creates != 0 || len(f.episodes.byID) != 0 {
		t.Errorf("rejected enrollment must not write anything")
	}
}

func TestEnroll_SameDayDischargeAllowed(t *testing.T) {
	f := newFixture(t)
	req := validRequest(f)
	req.SurgeryDate = "2026-02-15"
	req.DischargeDate = "2026-02-15"

	if _, err := f.svc.Enroll(context.Background(), req, f.nurseID, "", ""); err != nil {
		t.Fatalf("same-day discharge should be allowed: %v", err)
	}
}

func TestEnroll_UnknownSurgeryType(t *testing.T) {
	f := newFixture(t)
	req := validRequest(f)
	req.SurgeryType = "ACL"

	_, err := f.svc.Enroll(context.Background(), req, f.nurseID, "", "")
	var ne *NotFoundError
	if !errors.As(err, &ne) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
	if ne.Message != "No active recovery template found for surgery type: ACL" {
		t.Errorf("message = %q", ne.Message)
	}
}

func TestEnroll_SurgeonMissingAndWrongRoleIndistinguishable(t *testing.T) {
	f := newFixture(t)

	missing := uuid.New()
	reqMissing := validRequest(f)
	reqMissing.PrimarySurgeonID = missing
	_, errMissing := f.svc.Enroll(context.Background(), reqMissing, f.nurseID, "", "")

	reqNurse := validRequest(f)
	reqNurse.PrimarySurgeonID = f.nurseID
	_, errNurse := f.svc.Enroll(context.Background(), reqNurse, f.nurseID, "", "")

	var ne1, ne2 *NotFoundError
	if !errors.As(errMissing, &ne1) || !errors.As(errNurse, &ne2) {
		t.Fatalf("both cases must be NotFoundError, got %v and %v", errMissing, errNurse)
	}
	want := "Surgeon not found with ID: " + missing.String()
	if ne1.Message != want {
		t.Errorf("missing surgeon message = %q", ne1.Message)
	}
	want = "Surgeon not found with ID: " + f.nurseID.String()
	if ne2.Message != want {
		t.Errorf("wrong-role surgeon message = %q", ne2.Message)
	}
	if f.patients.creates != 0 {
		t.Errorf("failed surgeon lookup must not create a patient")
	}
}

func TestEnroll_SecondaryClinicianAnyRole(t *testing.T) {
	f := newFixture(t)
	req := validRequest(f)
	// A nurse is acceptable as secondary clinician; no role check applies.
	req.SecondaryClinicianID = &f.nurseID

	res, err := f.svc.Enroll(context.Background(), req, f.nurseID, "", "")
	if err != nil {
		t.Fatalf("enroll failed: %v", err)
	}
	ep, _ := f.episodes.GetByID(context.Background(), res.EpisodeID)
	if ep.SecondaryClinicianID == nil || *ep.SecondaryClinicianID != f.nurseID {
		t.Errorf("secondary clinician not stored")
	}
}

func TestEnroll_SecondaryClinicianMissing(t *testing.T) {
	f := newFixture(t)
	unknown := uuid.New()
	req := validRequest(f)
	req.SecondaryClinicianID = &unknown

	_, err := f.svc.Enroll(context.Background(), req, f.nurseID, "", "")
	var ne *NotFoundError
	if !errors.As(err, &ne) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
	if ne.Message != "Clinician not found with ID: "+unknown.String() {
		t.Errorf("message = %q", ne.Message)
	}
}

func TestEnroll_ExistingPatientReused(t *testing.T) {
	f := newFixture(t)

	first, err := f.svc.Enroll(context.Background(), validRequest(f), f.nurseID, "", "")
	if err != nil {
		t.Fatalf("first enroll failed: %v", err)
	}

	// Second surgery type for the same patient reuses the identity and
	// refreshes demographics.
	thr := &template.RecoveryTemplate{
		SurgeryType: "THR", DisplayName: "Total Hip Replacement",
		MonitoringDays: 21, IsActive: true, CreatedBy: f.surgeonID,
	}
	if err := f.templates.Create(context.Background(), thr); err != nil {
		t.Fatalf("seed template: %v", err)
	}
	f.episodes.surgeryByTemplate[thr.ID] = "THR"

	req := validRequest(f)
	req.SurgeryType = "THR"
	req.Age = 65
	req.PatientName = "Ramesh K. Kumar"

	second, err := f.svc.Enroll(context.Background(), req, f.nurseID, "", "")
	if err != nil {
		t.Fatalf("second enroll failed: %v", err)
	}

	if second.PatientID != first.PatientID {
		t.Errorf("same phone must resolve to the same patient")
	}
	if f.patients.creates != 1 {
		t.Errorf("patient creates = %d, want 1", f.patients.creates)
	}
	if f.patients.updates != 1 {
		t.Errorf("patient updates = %d, want 1", f.patients.updates)
	}
	p, _ := f.patients.GetByID(context.Background(), first.PatientID)
	if p.Age != 65 || p.FullName != "Ramesh K. Kumar" {
		t.Errorf("demographics not refreshed: %+v", p)
	}
}

func TestEnroll_DuplicateActiveEpisodeRejected(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.Enroll(context.Background(), validRequest(f), f.nurseID, "", ""); err != nil {
		t.Fatalf("first enroll failed: %v", err)
	}

	_, err := f.svc.Enroll(context.Background(), validRequest(f), f.nurseID, "", "")
	var de *DuplicateError
	if !errors.As(err, &de) {
		t.Fatalf("want DuplicateError, got %v", err)
	}
	if de.Message != "Patient already has an active episode for surgery type: TKR" {
		t.Errorf("message = %q", de.Message)
	}
	if f.patients.updates != 0 {
		t.Errorf("duplicate rejection must not touch demographics")
	}
	if len(f.episodes.byID) != 1 {
		t.Errorf("no second episode may be created")
	}
}

func TestEnroll_InactiveEpisodeDoesNotBlock(t *testing.T) {
	f := newFixture(t)

	first, err := f.svc.Enroll(context.Background(), validRequest(f), f.nurseID, "", "")
	if err != nil {
		t.Fatalf("first enroll failed: %v", err)
	}

	// Cancelled episodes do not count toward the duplicate check.
	ep, _ := f.episodes.GetByID(context.Background(), first.EpisodeID)
	f.episodes.byID[ep.ID].Status = episode.StatusCancelled
	delete(f.episodes.active[ep.PatientID], "TKR")

	if _, err := f.svc.Enroll(context.Background(), validRequest(f), f.nurseID, "", ""); err != nil {
		t.Fatalf("re-enrollment after cancellation should succeed: %v", err)
	}
	if len(f.episodes.byID) != 2 {
		t.Errorf("episodes = %d, want 2", len(f.episodes.byID))
	}
}

func TestEnroll_EpisodeInsertConflictIsDuplicate(t *testing.T) {
	f := newFixture(t)
	// The partial unique index rejects the insert when a concurrent
	// enrollment won the race between the duplicate check and the write.
	f.episodes.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "uq_episodes_active_patient_template"}

	_, err := f.svc.Enroll(context.Background(), validRequest(f), f.nurseID, "", "")
	var de *DuplicateError
	if !errors.As(err, &de) {
		t.Fatalf("want DuplicateError, got %v", err)
	}
	if de.Message != "Patient already has an active episode for surgery type: TKR" {
		t.Errorf("message = %q", de.Message)
	}
	if len(f.consents.rows) != 0 || len(f.audits.rows) != 0 {
		t.Errorf("rejected insert must not write consent or audit rows")
	}
	if len(f.scheduler.calls) != 0 {
		t.Errorf("rejected insert must not schedule a timeout check")
	}
}

func TestEnroll_PatientInsertConflictIsDuplicate(t *testing.T) {
	f := newFixture(t)
	// Two first-time enrollments with the same phone race on the
	// phone_primary unique constraint; the loser gets a conflict.
	f.patients.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "patients_phone_primary_key"}

	_, err := f.svc.Enroll(context.Background(), validRequest(f), f.nurseID, "", "")
	var de *DuplicateError
	if !errors.As(err, &de) {
		t.Fatalf("want DuplicateError, got %v", err)
	}
	if len(f.episodes.byID) != 0 || len(f.consents.rows) != 0 {
		t.Errorf("failed patient insert must not write downstream rows")
	}
}

func TestRequest_Validate(t *testing.T) {
	base := func() *Request {
		pain := 6
		return &Request{
			PatientName:            "Ramesh Kumar",
			Age:                    64,
			PhonePrimary:           "+919876543210",
			SurgeryType:            "TKR",
			SurgeryDate:            "2026-02-13",
			DischargeDate:          "2026-02-15",
			PrimarySurgeonID:       uuid.New(),
			PainScoreDischarge:     &pain,
			SwellingLevelDischarge: "MODERATE",
		}
	}

	cases := []struct {
		name    string
		mutate  func(*Request)
		wantErr string
	}{
		{"valid", func(r *Request) {}, ""},
		{"short name", func(r *Request) { r.PatientName = "R" },
			"Patient name must be between 2 and 255 characters"},
		{"zero age", func(r *Request) { r.Age = 0 },
			"Age must be at least 1"},
		{"age too high", func(r *Request) { r.Age = 150 },
			"Age must be less than 150"},
		{"phone without country code", func(r *Request) { r.PhonePrimary = "9876543210" },
			"Phone must be a valid Indian mobile number (e.g., +919876543210)"},
		{"phone bad leading digit", func(r *Request) { r.PhonePrimary = "+915876543210" },
			"Phone must be a valid Indian mobile number (e.g., +919876543210)"},
		{"bad caregiver phone", func(r *Request) { s := "12345"; r.PhoneCaregiver = &s },
			"Caregiver phone must be a valid Indian mobile number"},
		{"missing surgery type", func(r *Request) { r.SurgeryType = "" },
			"Surgery type is required"},
		{"bad surgery date", func(r *Request) { r.SurgeryDate = "13-02-2026" },
			"Surgery date must be in YYYY-MM-DD format"},
		{"missing surgeon", func(r *Request) { r.PrimarySurgeonID = uuid.Nil },
			"Primary surgeon ID is required"},
		{"missing pain score", func(r *Request) { r.PainScoreDischarge = nil },
			"Pain score at discharge is required"},
		{"pain score too high", func(r *Request) { p := 11; r.PainScoreDischarge = &p },
			"Pain score must be between 0 and 10"},
		{"bad swelling level", func(r *Request) { r.SwellingLevelDischarge = "EXTREME" },
			"Swelling level must be one of: NONE, MILD, MODERATE, SEVERE"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := base()
			tc.mutate(r)
			err := r.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("want ValidationError, got %v", err)
			}
			if ve.Message != tc.wantErr {
				t.Errorf("message = %q, want %q", ve.Message, tc.wantErr)
			}
		})
	}
}

func TestRequest_ValidatePainScoreZeroAllowed(t *testing.T) {
	f := newFixture(t)
	req := validRequest(f)
	zero := 0
	req.PainScoreDischarge = &zero

	if _, err := f.svc.Enroll(context.Background(), req, f.nurseID, "", ""); err != nil {
		t.Fatalf("pain score 0 is valid: %v", err)
	}
}
