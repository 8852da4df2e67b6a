package payslip

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cruisehub/reseller-backend-go/internal/domain/auth"
	"github.com/cruisehub/reseller-backend-go/internal/domain/commission"
	"github.com/cruisehub/reseller-backend-go/internal/domain/notification"
	"github.com/cruisehub/reseller-backend-go/internal/domain/payslip"
	"github.com/cruisehub/reseller-backend-go/internal/domain/profile"
	"github.com/cruisehub/reseller-backend-go/internal/domain/sale"
	"github.com/cruisehub/reseller-backend-go/internal/pkg/docrender"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- in-memory fakes ----

type fakePayslipRepo struct {
	payslips map[string]payslip.Payslip
	seq      int

	// beforeCreate runs at the top of Create; tests use it to slip in a
	// concurrent writer between the existence pre-read and the insert.
	beforeCreate func()
}

func newFakePayslipRepo() *fakePayslipRepo {
	return &fakePayslipRepo{payslips: make(map[string]payslip.Payslip)}
}

func (r *fakePayslipRepo) Create(ctx context.Context, p payslip.Payslip) (payslip.Payslip, error) {
	if r.beforeCreate != nil {
		r.beforeCreate()
	}
	for _, existing := range r.payslips {
		if existing.ProfileID == p.ProfileID && existing.Period == p.Period {
			return payslip.Payslip{}, payslip.ErrPayslipAlreadyExists
		}
	}
	r.seq++
	p.ID = fmt.Sprintf("payslip-%d", r.seq)
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.payslips[p.ID] = p
	return p, nil
}

func (r *fakePayslipRepo) GetByID(ctx context.Context, id string) (payslip.Payslip, error) {
	p, ok := r.payslips[id]
	if !ok {
		return payslip.Payslip{}, payslip.ErrPayslipNotFound
	}
	return p, nil
}

func (r *fakePayslipRepo) GetByProfilePeriod(ctx context.Context, profileID, period string) (payslip.Payslip, error) {
	for _, p := range r.payslips {
		if p.ProfileID == profileID && p.Period == period {
			return p, nil
		}
	}
	return payslip.Payslip{}, payslip.ErrPayslipNotFound
}

func (r *fakePayslipRepo) ListByStatus(ctx context.Context, status payslip.PayslipStatus) ([]payslip.Payslip, error) {
	var result []payslip.Payslip
	for _, p := range r.payslips {
		if p.Status == status {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *fakePayslipRepo) ListByProfileID(ctx context.Context, profileID string) ([]payslip.Payslip, error) {
	var result []payslip.Payslip
	for _, p := range r.payslips {
		if p.ProfileID == profileID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *fakePayslipRepo) MarkApproved(ctx context.Context, id, adminID string) error {
	p, ok := r.payslips[id]
	if !ok || p.Status != payslip.PayslipStatusPending {
		return payslip.ErrPayslipAlreadyProcessed
	}
	now := time.Now()
	p.Status = payslip.PayslipStatusApproved
	p.ApprovedAt = &now
	p.ApprovedBy = &adminID
	r.payslips[id] = p
	return nil
}

func (r *fakePayslipRepo) MarkSent(ctx context.Context, id, pdfURL string) error {
	p, ok := r.payslips[id]
	if !ok || p.Status != payslip.PayslipStatusApproved {
		return payslip.ErrPayslipAlreadyProcessed
	}
	now := time.Now()
	p.Status = payslip.PayslipStatusSent
	p.SentAt = &now
	p.PdfURL = &pdfURL
	r.payslips[id] = p
	return nil
}

type fakeProfileRepo struct {
	profiles map[string]profile.Profile
}

func (r *fakeProfileRepo) Create(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	r.profiles[p.ID] = p
	return p, nil
}

func (r *fakeProfileRepo) GetByID(ctx context.Context, id string) (profile.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return profile.Profile{}, profile.ErrProfileNotFound
	}
	return p, nil
}

func (r *fakeProfileRepo) ListByIDs(ctx context.Context, ids []string) ([]profile.Profile, error) {
	var result []profile.Profile
	for _, id := range ids {
		if p, ok := r.profiles[id]; ok {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *fakeProfileRepo) ListActive(ctx context.Context) ([]profile.Profile, error) {
	var result []profile.Profile
	for _, p := range r.profiles {
		if p.IsActive() {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *fakeProfileRepo) UpdateStatus(ctx context.Context, id string, status profile.ProfileStatus) error {
	p, ok := r.profiles[id]
	if !ok {
		return profile.ErrProfileNotFound
	}
	p.Status = status
	r.profiles[id] = p
	return nil
}

func (r *fakeProfileRepo) Delete(ctx context.Context, id string) error {
	delete(r.profiles, id)
	return nil
}

type fakeRelationRepo struct {
	relations []profile.Relation
}

func (r *fakeRelationRepo) Create(ctx context.Context, rel profile.Relation) (profile.Relation, error) {
	r.relations = append(r.relations, rel)
	return rel, nil
}

func (r *fakeRelationRepo) GetActiveAgentIDs(ctx context.Context, managerID string) ([]string, error) {
	var ids []string
	for _, rel := range r.relations {
		if rel.ManagerID == managerID && rel.Status == profile.RelationStatusActive {
			ids = append(ids, rel.AgentID)
		}
	}
	return ids, nil
}

func (r *fakeRelationRepo) GetActiveByAgentID(ctx context.Context, agentID string) (profile.Relation, error) {
	for _, rel := range r.relations {
		if rel.AgentID == agentID && rel.Status == profile.RelationStatusActive {
			return rel, nil
		}
	}
	return profile.Relation{}, profile.ErrRelationNotFound
}

func (r *fakeRelationRepo) UpdateStatus(ctx context.Context, id string, status profile.RelationStatus) error {
	for i, rel := range r.relations {
		if rel.ID == id {
			r.relations[i].Status = status
			return nil
		}
	}
	return profile.ErrRelationNotFound
}

// fakeSaleReader serves only the aggregation read used by the calculator.
type fakeSaleReader struct {
	sales []sale.Sale
}

func (r *fakeSaleReader) Create(ctx context.Context, s sale.Sale) (sale.Sale, error) {
	r.sales = append(r.sales, s)
	return s, nil
}

func (r *fakeSaleReader) GetByID(ctx context.Context, id string) (sale.Sale, error) {
	return sale.Sale{}, sale.ErrSaleNotFound
}

func (r *fakeSaleReader) ListByProfileIDs(ctx context.Context, profileIDs []string, filter sale.ListFilter) ([]sale.Sale, int64, error) {
	return nil, 0, nil
}

func (r *fakeSaleReader) ListApprovedInPeriod(ctx context.Context, profileIDs []string, from, to time.Time) ([]sale.Sale, error) {
	var result []sale.Sale
	for _, s := range r.sales {
		if s.Status != sale.SaleStatusApproved {
			continue
		}
		if s.SaleDate.Before(from) || !s.SaleDate.Before(to) {
			continue
		}
		for _, id := range profileIDs {
			if s.OwnedBy(id) {
				result = append(result, s)
				break
			}
		}
	}
	return result, nil
}

func (r *fakeSaleReader) MarkSubmitted(ctx context.Context, id, actorID string, at time.Time) error {
	return nil
}
func (r *fakeSaleReader) ClearSubmission(ctx context.Context, id string) error { return nil }
func (r *fakeSaleReader) MarkApproved(ctx context.Context, id, adminID string, at time.Time) error {
	return nil
}
func (r *fakeSaleReader) MarkRejected(ctx context.Context, id, adminID, reason string, at time.Time) error {
	return nil
}
func (r *fakeSaleReader) MarkRefunded(ctx context.Context, id, adminID, reason string, at time.Time) error {
	return nil
}
func (r *fakeSaleReader) UpdateCardPaymentStatus(ctx context.Context, id string, status sale.PaymentSubStatus) error {
	return nil
}
func (r *fakeSaleReader) UpdateReceiptStatus(ctx context.Context, id string, status sale.PaymentSubStatus) error {
	return nil
}
func (r *fakeSaleReader) AppendMetadata(ctx context.Context, id string, entry sale.AuditEntry) error {
	return nil
}

type fakeRenderer struct {
	url   string
	err   error
	calls int
}

func (r *fakeRenderer) RenderPayslip(ctx context.Context, req docrender.RenderRequest) (string, error) {
	r.calls++
	if r.err != nil {
		return "", r.err
	}
	return r.url, nil
}

type fakeNotificationService struct {
	notifications []notification.CreateNotificationRequest
	audits        []notification.AuditRecord
}

func (s *fakeNotificationService) Notify(req notification.CreateNotificationRequest) {
	s.notifications = append(s.notifications, req)
}

func (s *fakeNotificationService) Audit(record notification.AuditRecord) {
	s.audits = append(s.audits, record)
}

func (s *fakeNotificationService) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool) ([]notification.Notification, error) {
	return nil, nil
}

func (s *fakeNotificationService) MarkRead(ctx context.Context, id, recipientID string) error {
	return nil
}

func (s *fakeNotificationService) Shutdown() {}

// ---- fixture ----

const (
	agentID   = "agent-1"
	managerID = "manager-1"
	adminID   = "admin-1"
)

type payslipFixture struct {
	svc         payslip.PayslipService
	payslipRepo *fakePayslipRepo
	saleRepo    *fakeSaleReader
	renderer    *fakeRenderer
	notifier    *fakeNotificationService
}

func newPayslipFixture() *payslipFixture {
	payslipRepo := newFakePayslipRepo()
	saleRepo := &fakeSaleReader{}
	renderer := &fakeRenderer{url: "https://docs.example.com/payslips/p.pdf"}
	notifier := &fakeNotificationService{}

	profileRepo := &fakeProfileRepo{profiles: map[string]profile.Profile{
		agentID:   {ID: agentID, Name: "Agent One", Role: profile.RoleAgent, Status: profile.ProfileStatusActive},
		managerID: {ID: managerID, Name: "Manager One", Role: profile.RoleBranchManager, Status: profile.ProfileStatusActive},
	}}
	relationRepo := &fakeRelationRepo{relations: []profile.Relation{
		{ID: "rel-1", ManagerID: managerID, AgentID: agentID, Status: profile.RelationStatusActive},
	}}

	calculator := commission.NewCalculator(saleRepo)

	return &payslipFixture{
		svc:         NewPayslipService(payslipRepo, profileRepo, relationRepo, calculator, renderer, notifier),
		payslipRepo: payslipRepo,
		saleRepo:    saleRepo,
		renderer:    renderer,
		notifier:    notifier,
	}
}

func (f *payslipFixture) seedApprovedSale(ownerID string, amount int64, saleDate time.Time) {
	owner := ownerID
	f.saleRepo.sales = append(f.saleRepo.sales, sale.Sale{
		ID:       fmt.Sprintf("sale-%d", len(f.saleRepo.sales)+1),
		AgentID:  &owner,
		Amount:   decimal.NewFromInt(amount),
		SaleDate: saleDate,
		Status:   sale.SaleStatusApproved,
	})
}

// ---- tests ----

func TestPayslipService_Generate_AgentTotals(t *testing.T) {
	f := newPayslipFixture()
	f.seedApprovedSale(agentID, 600_000, time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC))
	f.seedApprovedSale(agentID, 400_000, time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC))
	// Outside the period; must not count.
	f.seedApprovedSale(agentID, 900_000, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC))

	generated, err := f.svc.Generate(context.Background(), agentID, "2025-03")

	require.NoError(t, err)
	assert.Equal(t, payslip.PayslipStatusPending, generated.Status)
	assert.Equal(t, "1000000", generated.TotalSales.String())
	assert.Equal(t, "100000", generated.TotalCommission.String())
	assert.Equal(t, "3300", generated.TotalWithholding.String())
	assert.Equal(t, "96700", generated.NetPayment.String())
}

func TestPayslipService_Generate_Idempotent(t *testing.T) {
	f := newPayslipFixture()
	f.seedApprovedSale(agentID, 500_000, time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC))

	first, err := f.svc.Generate(context.Background(), agentID, "2025-03")
	require.NoError(t, err)

	// More sales approved after generation must not change the existing row.
	f.seedApprovedSale(agentID, 300_000, time.Date(2025, time.March, 6, 0, 0, 0, 0, time.UTC))

	second, err := f.svc.Generate(context.Background(), agentID, "2025-03")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.TotalSales.String(), second.TotalSales.String())
}

func TestPayslipService_Generate_LoserAdoptsWinnerRow(t *testing.T) {
	f := newPayslipFixture()
	f.seedApprovedSale(agentID, 500_000, time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC))

	// A concurrent generation commits its row after this call's existence
	// pre-read but before its insert.
	winner := payslip.Payslip{
		ID:         "payslip-winner",
		ProfileID:  agentID,
		Period:     "2025-03",
		Type:       payslip.PayslipTypeCommission,
		TotalSales: decimal.NewFromInt(500_000),
		Status:     payslip.PayslipStatusPending,
	}
	f.payslipRepo.beforeCreate = func() {
		f.payslipRepo.payslips[winner.ID] = winner
	}

	got, err := f.svc.Generate(context.Background(), agentID, "2025-03")

	require.NoError(t, err)
	assert.Equal(t, "payslip-winner", got.ID)
	assert.Equal(t, "500000", got.TotalSales.String())

	// Exactly one row for (profile, period), and the losing call does not
	// notify a second time.
	assert.Len(t, f.payslipRepo.payslips, 1)
	assert.Empty(t, f.notifier.notifications)
}

func TestPayslipService_Generate_ManagerRollUp(t *testing.T) {
	f := newPayslipFixture()
	f.seedApprovedSale(managerID, 1_000_000, time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC))
	f.seedApprovedSale(agentID, 500_000, time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC))

	generated, err := f.svc.Generate(context.Background(), managerID, "2025-03")

	require.NoError(t, err)
	// Manager rate applies to own + linked-agent sales.
	assert.Equal(t, "1500000", generated.TotalSales.String())
	assert.Equal(t, "180000", generated.TotalCommission.String())
}

func TestPayslipService_Generate_InvalidPeriod(t *testing.T) {
	f := newPayslipFixture()

	_, err := f.svc.Generate(context.Background(), agentID, "March 2025")

	require.Error(t, err)
}

func TestPayslipService_Approve_Success(t *testing.T) {
	f := newPayslipFixture()
	generated, err := f.svc.Generate(context.Background(), agentID, "2025-03")
	require.NoError(t, err)

	approved, err := f.svc.Approve(context.Background(), adminID, generated.ID)

	require.NoError(t, err)
	assert.Equal(t, payslip.PayslipStatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, adminID, *approved.ApprovedBy)
}

func TestPayslipService_Approve_Twice(t *testing.T) {
	f := newPayslipFixture()
	generated, err := f.svc.Generate(context.Background(), agentID, "2025-03")
	require.NoError(t, err)

	_, err = f.svc.Approve(context.Background(), adminID, generated.ID)
	require.NoError(t, err)

	_, err = f.svc.Approve(context.Background(), adminID, generated.ID)
	assert.ErrorIs(t, err, payslip.ErrPayslipAlreadyProcessed)
}

func TestPayslipService_RenderAndSend_Success(t *testing.T) {
	f := newPayslipFixture()
	generated, err := f.svc.Generate(context.Background(), agentID, "2025-03")
	require.NoError(t, err)
	_, err = f.svc.Approve(context.Background(), adminID, generated.ID)
	require.NoError(t, err)

	sent, err := f.svc.RenderAndSend(context.Background(), generated.ID)

	require.NoError(t, err)
	assert.Equal(t, payslip.PayslipStatusSent, sent.Status)
	require.NotNil(t, sent.PdfURL)
	assert.Equal(t, f.renderer.url, *sent.PdfURL)
}

func TestPayslipService_RenderAndSend_PendingFails(t *testing.T) {
	f := newPayslipFixture()
	generated, err := f.svc.Generate(context.Background(), agentID, "2025-03")
	require.NoError(t, err)

	_, err = f.svc.RenderAndSend(context.Background(), generated.ID)

	assert.ErrorIs(t, err, payslip.ErrPayslipNotApproved)
}

func TestPayslipService_RenderAndSend_SentIsSkipped(t *testing.T) {
	f := newPayslipFixture()
	generated, err := f.svc.Generate(context.Background(), agentID, "2025-03")
	require.NoError(t, err)
	_, err = f.svc.Approve(context.Background(), adminID, generated.ID)
	require.NoError(t, err)
	_, err = f.svc.RenderAndSend(context.Background(), generated.ID)
	require.NoError(t, err)
	callsAfterFirst := f.renderer.calls

	again, err := f.svc.RenderAndSend(context.Background(), generated.ID)

	require.NoError(t, err)
	assert.Equal(t, payslip.PayslipStatusSent, again.Status)
	// No second render for an already-sent payslip.
	assert.Equal(t, callsAfterFirst, f.renderer.calls)
}

func TestPayslipService_RenderAndSend_FailureKeepsApproved(t *testing.T) {
	f := newPayslipFixture()
	generated, err := f.svc.Generate(context.Background(), agentID, "2025-03")
	require.NoError(t, err)
	_, err = f.svc.Approve(context.Background(), adminID, generated.ID)
	require.NoError(t, err)

	f.renderer.err = docrender.ErrRenderFailed
	_, err = f.svc.RenderAndSend(context.Background(), generated.ID)

	assert.ErrorIs(t, err, docrender.ErrRenderFailed)

	// Still APPROVED for the next dispatcher run.
	stored, getErr := f.payslipRepo.GetByID(context.Background(), generated.ID)
	require.NoError(t, getErr)
	assert.Equal(t, payslip.PayslipStatusApproved, stored.Status)
	assert.Nil(t, stored.PdfURL)
}

func TestPayslipService_DispatchApproved(t *testing.T) {
	f := newPayslipFixture()
	forAgent, err := f.svc.Generate(context.Background(), agentID, "2025-03")
	require.NoError(t, err)
	forManager, err := f.svc.Generate(context.Background(), managerID, "2025-03")
	require.NoError(t, err)

	_, err = f.svc.Approve(context.Background(), adminID, forAgent.ID)
	require.NoError(t, err)
	_, err = f.svc.Approve(context.Background(), adminID, forManager.ID)
	require.NoError(t, err)

	sent, err := f.svc.DispatchApproved(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	// A second run has nothing left to send.
	sent, err = f.svc.DispatchApproved(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
}

func TestPayslipService_GenerateForPeriod_AllActiveProfiles(t *testing.T) {
	f := newPayslipFixture()

	generated, err := f.svc.GenerateForPeriod(context.Background(), "2025-03")

	require.NoError(t, err)
	assert.Len(t, generated, 2)
}

func TestPayslipService_GetByID_ScopeCheck(t *testing.T) {
	f := newPayslipFixture()
	generated, err := f.svc.Generate(context.Background(), agentID, "2025-03")
	require.NoError(t, err)

	// Owner sees it.
	_, err = f.svc.GetByID(context.Background(), auth.Actor{ProfileID: agentID}, generated.ID)
	assert.NoError(t, err)

	// Another profile does not.
	_, err = f.svc.GetByID(context.Background(), auth.Actor{ProfileID: managerID}, generated.ID)
	assert.ErrorIs(t, err, profile.ErrNotInScope)

	// Admin bypasses the ownership check.
	_, err = f.svc.GetByID(context.Background(), auth.Actor{ProfileID: adminID, IsAdmin: true}, generated.ID)
	assert.NoError(t, err)
}
