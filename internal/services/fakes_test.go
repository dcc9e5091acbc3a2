package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/condoflow/backend/internal/auth"
	"github.com/condoflow/backend/internal/models"
	"github.com/condoflow/backend/internal/whatsapp"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository fakes shared by the service tests.

type fakeProviderConfigRepo struct {
	active  *models.ProviderConfig
	findErr error
}

func (f *fakeProviderConfigRepo) Create(ctx context.Context, cfg *models.ProviderConfig) error {
	f.active = cfg
	return nil
}

func (f *fakeProviderConfigRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.ProviderConfig, error) {
	if f.active != nil && f.active.ID == id {
		return f.active, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProviderConfigRepo) FindActive(ctx context.Context) (*models.ProviderConfig, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.active == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.active, nil
}

func (f *fakeProviderConfigRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return nil
}

func (f *fakeProviderConfigRepo) List(ctx context.Context) ([]models.ProviderConfig, error) {
	if f.active == nil {
		return nil, nil
	}
	return []models.ProviderConfig{*f.active}, nil
}

type fakeTemplateRepo struct {
	templates map[string]*models.MessageTemplate
	updated   []*models.MessageTemplate
}

func newFakeTemplateRepo(templates ...*models.MessageTemplate) *fakeTemplateRepo {
	repo := &fakeTemplateRepo{templates: make(map[string]*models.MessageTemplate)}
	for _, tpl := range templates {
		repo.templates[tpl.Slug] = tpl
	}
	return repo
}

func (f *fakeTemplateRepo) Create(ctx context.Context, tpl *models.MessageTemplate) error {
	f.templates[tpl.Slug] = tpl
	return nil
}

func (f *fakeTemplateRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.MessageTemplate, error) {
	for _, tpl := range f.templates {
		if tpl.ID == id {
			return tpl, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTemplateRepo) FindBySlug(ctx context.Context, slug string) (*models.MessageTemplate, error) {
	tpl, ok := f.templates[slug]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return tpl, nil
}

func (f *fakeTemplateRepo) Update(ctx context.Context, tpl *models.MessageTemplate) error {
	f.templates[tpl.Slug] = tpl
	f.updated = append(f.updated, tpl)
	return nil
}

func (f *fakeTemplateRepo) List(ctx context.Context) ([]models.MessageTemplate, error) {
	var list []models.MessageTemplate
	for _, tpl := range f.templates {
		list = append(list, *tpl)
	}
	return list, nil
}

type fakeDeliveryAttemptRepo struct {
	mu        sync.Mutex
	attempts  []*models.DeliveryAttempt
	createErr error
}

func (f *fakeDeliveryAttemptRepo) Create(ctx context.Context, attempt *models.DeliveryAttempt) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts = append(f.attempts, attempt)
	return nil
}

func (f *fakeDeliveryAttemptRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.DeliveryAttempt, error) {
	for _, attempt := range f.attempts {
		if attempt.ID == id {
			return attempt, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeDeliveryAttemptRepo) List(ctx context.Context, filter *models.DeliveryAttemptFilter) ([]models.DeliveryAttempt, int64, error) {
	var list []models.DeliveryAttempt
	for _, attempt := range f.attempts {
		list = append(list, *attempt)
	}
	return list, int64(len(list)), nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications map[string]*models.Notification
	marked        []uuid.UUID
	markErr       error
	unread        []models.Notification
}

func newFakeNotificationRepo(notifications ...*models.Notification) *fakeNotificationRepo {
	repo := &fakeNotificationRepo{notifications: make(map[string]*models.Notification)}
	for _, n := range notifications {
		repo.notifications[n.SecureLinkToken] = n
	}
	return repo
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	// Mirror the BeforeCreate hook of the real table.
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.SecureLinkToken == "" {
		n.SecureLinkToken = uuid.NewString()
	}
	if n.SentAt.IsZero() {
		n.SentAt = time.Now()
	}
	f.notifications[n.SecureLinkToken] = n
	return nil
}

func (f *fakeNotificationRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	for _, n := range f.notifications {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// FindByToken hands out copies the way a real query materializes fresh
// rows, so concurrent verifications don't share mutable state.
func (f *fakeNotificationRepo) FindByToken(ctx context.Context, token string) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notifications[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *n
	if n.Resident != nil {
		resident := *n.Resident
		copied.Resident = &resident
	}
	return &copied, nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, id uuid.UUID, ip, userAgent string) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marked = append(f.marked, id)
	return nil
}

func (f *fakeNotificationRepo) FindUnreadOlderThan(ctx context.Context, cutoff time.Time) ([]models.Notification, error) {
	return f.unread, nil
}

func (f *fakeNotificationRepo) ListByResident(ctx context.Context, residentID uuid.UUID, page, limit int) ([]models.Notification, int64, error) {
	return nil, 0, nil
}

type fakeResidentRepo struct {
	mu        sync.Mutex
	residents map[uuid.UUID]*models.Resident
	linked    map[uuid.UUID]string
}

func newFakeResidentRepo(residents ...*models.Resident) *fakeResidentRepo {
	repo := &fakeResidentRepo{
		residents: make(map[uuid.UUID]*models.Resident),
		linked:    make(map[uuid.UUID]string),
	}
	for _, r := range residents {
		repo.residents[r.ID] = r
	}
	return repo
}

func (f *fakeResidentRepo) Create(ctx context.Context, r *models.Resident) error {
	f.residents[r.ID] = r
	return nil
}

func (f *fakeResidentRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Resident, error) {
	r, ok := f.residents[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r, nil
}

func (f *fakeResidentRepo) FindByEmail(ctx context.Context, email string) (*models.Resident, error) {
	for _, r := range f.residents {
		if r.Email == email {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeResidentRepo) FindBySupabaseUserID(ctx context.Context, supabaseUserID string) (*models.Resident, error) {
	for _, r := range f.residents {
		if r.SupabaseUserID != nil && *r.SupabaseUserID == supabaseUserID {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeResidentRepo) LinkSupabaseUser(ctx context.Context, id uuid.UUID, supabaseUserID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.residents[id]; ok && (r.SupabaseUserID == nil || *r.SupabaseUserID == "") {
		r.SupabaseUserID = &supabaseUserID
		f.linked[id] = supabaseUserID
	}
	return nil
}

func (f *fakeResidentRepo) List(ctx context.Context, condominiumID *uuid.UUID, page, limit int) ([]models.Resident, int64, error) {
	return nil, 0, nil
}

type fakeAccessAttemptRepo struct {
	mu        sync.Mutex
	attempts  []*models.AccessAttempt
	createErr error
}

func (f *fakeAccessAttemptRepo) Create(ctx context.Context, attempt *models.AccessAttempt) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts = append(f.attempts, attempt)
	return nil
}

func (f *fakeAccessAttemptRepo) List(ctx context.Context, filter *models.AccessAttemptFilter) ([]models.AccessAttempt, int64, error) {
	var list []models.AccessAttempt
	for _, attempt := range f.attempts {
		list = append(list, *attempt)
	}
	return list, int64(len(list)), nil
}

type fakeAccountRoleRepo struct {
	mu    sync.Mutex
	roles map[string][]string
	err   error
}

func newFakeAccountRoleRepo() *fakeAccountRoleRepo {
	return &fakeAccountRoleRepo{roles: make(map[string][]string)}
}

func (f *fakeAccountRoleRepo) ReplaceRole(ctx context.Context, supabaseUserID, role string) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles[supabaseUserID] = []string{role}
	return nil
}

func (f *fakeAccountRoleRepo) FindRoles(ctx context.Context, supabaseUserID string) ([]models.AccountRole, error) {
	var out []models.AccountRole
	for _, role := range f.roles[supabaseUserID] {
		out = append(out, models.AccountRole{SupabaseUserID: supabaseUserID, Role: role})
	}
	return out, nil
}

type fakeJobRepo struct {
	controls   map[string]*models.JobControl
	executions []*models.JobExecution
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{controls: make(map[string]*models.JobControl)}
}

func (f *fakeJobRepo) GetControl(ctx context.Context, jobName string) (*models.JobControl, error) {
	control, ok := f.controls[jobName]
	if !ok {
		control = &models.JobControl{ID: uuid.New(), JobName: jobName}
		f.controls[jobName] = control
	}
	return control, nil
}

func (f *fakeJobRepo) SetPaused(ctx context.Context, jobName string, paused bool) (*models.JobControl, error) {
	control, _ := f.GetControl(ctx, jobName)
	control.Paused = paused
	return control, nil
}

func (f *fakeJobRepo) ListControls(ctx context.Context) ([]models.JobControl, error) {
	var list []models.JobControl
	for _, c := range f.controls {
		list = append(list, *c)
	}
	return list, nil
}

func (f *fakeJobRepo) CreateExecution(ctx context.Context, execution *models.JobExecution) error {
	f.executions = append(f.executions, execution)
	return nil
}

func (f *fakeJobRepo) ListExecutions(ctx context.Context, jobName string, page, limit int) ([]models.JobExecution, int64, error) {
	var list []models.JobExecution
	for _, e := range f.executions {
		if e.JobName == jobName {
			list = append(list, *e)
		}
	}
	return list, int64(len(list)), nil
}

type fakeOccurrenceRepo struct {
	occurrences map[uuid.UUID]*models.Occurrence
	createErr   error
}

func newFakeOccurrenceRepo() *fakeOccurrenceRepo {
	return &fakeOccurrenceRepo{occurrences: make(map[uuid.UUID]*models.Occurrence)}
}

func (f *fakeOccurrenceRepo) Create(ctx context.Context, o *models.Occurrence) error {
	if f.createErr != nil {
		return f.createErr
	}
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	f.occurrences[o.ID] = o
	return nil
}

func (f *fakeOccurrenceRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Occurrence, error) {
	o, ok := f.occurrences[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (f *fakeOccurrenceRepo) Update(ctx context.Context, o *models.Occurrence) error {
	f.occurrences[o.ID] = o
	return nil
}

func (f *fakeOccurrenceRepo) List(ctx context.Context, condominiumID *uuid.UUID, page, limit int) ([]models.Occurrence, int64, error) {
	var list []models.Occurrence
	for _, o := range f.occurrences {
		if condominiumID != nil && o.CondominiumID != *condominiumID {
			continue
		}
		list = append(list, *o)
	}
	return list, int64(len(list)), nil
}

// stubIdentity is a scriptable auth.Provider.
type stubIdentity struct {
	mu            sync.Mutex
	accounts      map[string]string // email -> account id
	createErr     error
	lookupErr     error
	linkErr       error
	createCalls   int
	lookupCalls   int
	generateCalls int
}

func newStubIdentity() *stubIdentity {
	return &stubIdentity{accounts: make(map[string]string)}
}

func (s *stubIdentity) CreateAccount(ctx context.Context, email string, metadata map[string]interface{}) (*auth.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++
	if s.createErr != nil {
		return nil, s.createErr
	}
	if _, exists := s.accounts[email]; exists {
		return nil, auth.ErrEmailExists
	}
	id := uuid.NewString()
	s.accounts[email] = id
	return &auth.Account{ID: id, Email: email}, nil
}

func (s *stubIdentity) FindAccountByEmail(ctx context.Context, email string) (*auth.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookupCalls++
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	id, ok := s.accounts[email]
	if !ok {
		return nil, errors.New("account not found")
	}
	return &auth.Account{ID: id, Email: email}, nil
}

func (s *stubIdentity) GenerateSignInLink(ctx context.Context, email, redirectTo string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.linkErr != nil {
		return "", s.linkErr
	}
	s.generateCalls++
	return "https://auth.example.com/magic?redirect_to=" + redirectTo, nil
}

// fakeMediaStore presigns object names without talking to object storage.
type fakeMediaStore struct {
	presignErr error
	presigned  []string
}

func (s *fakeMediaStore) PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	if s.presignErr != nil {
		return "", s.presignErr
	}
	s.presigned = append(s.presigned, objectName)
	return "https://media.condoflow.local/" + objectName + "?signed=1", nil
}

// stubAdapter echoes a scripted SendResult.
type stubAdapter struct {
	provider models.Provider
	result   whatsapp.SendResult
	sent     []string // messages or captions passed to SendText/SendImage
	phones   []string
	images   []string // media URLs passed to SendImage
}

func (a *stubAdapter) Name() models.Provider {
	return a.provider
}

func (a *stubAdapter) SendText(ctx context.Context, phone, message string, settings whatsapp.Settings) whatsapp.SendResult {
	a.sent = append(a.sent, message)
	a.phones = append(a.phones, phone)
	return a.result
}

func (a *stubAdapter) SendImage(ctx context.Context, phone, imageURL, caption string, settings whatsapp.Settings) whatsapp.SendResult {
	a.sent = append(a.sent, caption)
	a.phones = append(a.phones, phone)
	a.images = append(a.images, imageURL)
	return a.result
}
