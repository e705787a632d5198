package documents

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/belegwerk/belegwerk/internal/assets"
	"github.com/belegwerk/belegwerk/internal/customers"
	"github.com/belegwerk/belegwerk/internal/profiles"
	"github.com/belegwerk/belegwerk/internal/render"
	"github.com/belegwerk/belegwerk/jobs"
)

// ============================================================================
// MOCKS
// ============================================================================

type mockRepository struct {
	docs      map[int64]*Document
	nextID    int64
	sequences map[string]int64

	txError       error
	createError   error
	renderedError error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		docs:      make(map[int64]*Document),
		sequences: make(map[string]int64),
		nextID:    1,
	}
}

func (m *mockRepository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	if m.txError != nil {
		return m.txError
	}
	return fn(ctx, m)
}

func (m *mockRepository) Get(_ context.Context, id int64) (*Document, error) {
	doc, ok := m.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *doc
	copied.Positions = append([]Position(nil), doc.Positions...)
	return &copied, nil
}

func (m *mockRepository) List(_ context.Context, req ListDocumentsRequest) ([]Document, error) {
	var out []Document
	for _, doc := range m.docs {
		if req.Kind != nil && doc.Kind != *req.Kind {
			continue
		}
		out = append(out, *doc)
	}
	return out, nil
}

func (m *mockRepository) Create(_ context.Context, doc Document) (int64, error) {
	if m.createError != nil {
		return 0, m.createError
	}
	doc.ID = m.nextID
	m.nextID++
	m.docs[doc.ID] = &doc
	return doc.ID, nil
}

func (m *mockRepository) SetNumber(_ context.Context, id int64, number string, seq int64) error {
	doc, ok := m.docs[id]
	if !ok {
		return ErrNotFound
	}
	if doc.Number != nil {
		return fmt.Errorf("document %d already numbered", id)
	}
	doc.Number = &number
	doc.SequenceNo = &seq
	return nil
}

func (m *mockRepository) SetRendered(_ context.Context, id int64, totals Totals, assetKey string) error {
	if m.renderedError != nil {
		return m.renderedError
	}
	doc, ok := m.docs[id]
	if !ok {
		return ErrNotFound
	}
	doc.Totals = totals
	doc.AssetKey = &assetKey
	doc.Status = StatusFinalized
	return nil
}

func (m *mockRepository) SetStatus(_ context.Context, id int64, status Status) error {
	doc, ok := m.docs[id]
	if !ok {
		return ErrNotFound
	}
	doc.Status = status
	return nil
}

func (m *mockRepository) GenerateNumber(_ context.Context, profileID int64, kind Kind) (int64, error) {
	key := fmt.Sprintf("%d:%s", profileID, kind)
	m.sequences[key]++
	return m.sequences[key], nil
}

type mockCustomers struct {
	customer *customers.Customer
	err      error
}

func (m *mockCustomers) Get(context.Context, int64) (*customers.Customer, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.customer, nil
}

type mockProfiles struct {
	profile  *profiles.Profile
	settings profiles.Settings
}

func (m *mockProfiles) GetProfile(context.Context, int64) (*profiles.Profile, error) {
	return m.profile, nil
}

func (m *mockProfiles) GetSettings(context.Context, int64) (*profiles.Settings, error) {
	s := m.settings
	return &s, nil
}

type mockAssets struct {
	stored     map[string][]byte
	storeCalls int
	storeError error
	fetchError error
}

func newMockAssets() *mockAssets {
	return &mockAssets{stored: make(map[string][]byte)}
}

func (m *mockAssets) Store(_ context.Context, mime string, data []byte) (string, error) {
	if m.storeError != nil {
		return "", m.storeError
	}
	m.storeCalls++
	key := fmt.Sprintf("asset-%d", m.storeCalls)
	m.stored[key] = data
	return key, nil
}

func (m *mockAssets) Delete(_ context.Context, key string) error {
	if _, ok := m.stored[key]; !ok {
		return assets.ErrNotFound
	}
	delete(m.stored, key)
	return nil
}

func (m *mockAssets) Fetch(_ context.Context, key string) (*assets.Asset, error) {
	if m.fetchError != nil {
		return nil, m.fetchError
	}
	data, ok := m.stored[key]
	if !ok {
		return nil, assets.ErrNotFound
	}
	return &assets.Asset{Key: key, Mime: "application/pdf", Data: data}, nil
}

// fakeRenderer computes real figures but fakes the page stream.
type fakeRenderer struct {
	lastPayload render.Payload
	err         error
}

func (f *fakeRenderer) Render(p render.Payload) ([]byte, render.MoneySummary, error) {
	if f.err != nil {
		return nil, render.MoneySummary{}, f.err
	}
	f.lastPayload = p
	sum := render.Compute(p.Positions, p.TaxRate, p.Discount).Rounded()
	return []byte("%PDF-fake"), sum, nil
}

type mockQueue struct {
	tasks []*asynq.Task
}

func (m *mockQueue) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	m.tasks = append(m.tasks, task)
	return &asynq.TaskInfo{}, nil
}

// ============================================================================
// FIXTURES
// ============================================================================

type fixture struct {
	service  *Service
	repo     *mockRepository
	assets   *mockAssets
	renderer *fakeRenderer
	queue    *mockQueue
}

func newFixture() *fixture {
	repo := newMockRepository()
	assetStore := newMockAssets()
	renderer := &fakeRenderer{}
	queue := &mockQueue{}
	customerDir := &mockCustomers{customer: &customers.Customer{
		ID: 7, Number: "K-0007", Name: "Möbelhaus Petersen",
		Street: "Lange Reihe 4", PostalCode: "22085", City: "Hamburg",
		Email: "rechnung@petersen.example",
	}}
	profileDir := &mockProfiles{
		profile: &profiles.Profile{
			ID: 1, Name: "Werkstatt Nord GmbH", Street: "Hafenstraße 12",
			PostalCode: "20457", City: "Hamburg",
		},
		settings: profiles.Settings{
			ProfileID:          1,
			OfferPrefix:        "AN-",
			ConfirmationPrefix: "AB-",
			InvoicePrefix:      "RE-",
			InvoiceSuffix:      "-2026",
			PaymentTermsDays:   14,
			OfferValidityDays:  30,
		},
	}

	svc := NewService(repo, customerDir, profileDir, assetStore, renderer, queue, nil)
	svc.now = func() time.Time { return time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC) }
	return &fixture{service: svc, repo: repo, assets: assetStore, renderer: renderer, queue: queue}
}

func (f *fixture) draftOffer(t *testing.T) *Document {
	t.Helper()
	doc, err := f.service.Create(context.Background(), CreateDocumentRequest{
		Kind:       "OFFER",
		ProfileID:  1,
		CustomerID: 7,
		TaxRate:    19,
		Positions: []PositionRequest{
			{Kind: "item", Description: "Beratung", Quantity: 2, UnitPrice: 100, Unit: "Std."},
			{Kind: "item", Description: "Anfahrt", Quantity: 1, UnitPrice: 50},
		},
	})
	require.NoError(t, err)
	return doc
}

// ============================================================================
// TESTS
// ============================================================================

func TestCreateDraft(t *testing.T) {
	f := newFixture()
	doc := f.draftOffer(t)

	assert.Equal(t, KindOffer, doc.Kind)
	assert.Equal(t, StatusDraft, doc.Status)
	assert.Nil(t, doc.Number, "number is only allocated at first render")
	assert.Len(t, doc.Positions, 2)
	// Offer validity from settings: 30 days after issue.
	assert.Equal(t, doc.IssueDate.AddDate(0, 0, 30), doc.DueDate)
}

func TestRenderAllocatesNumberExactlyOnce(t *testing.T) {
	f := newFixture()
	doc := f.draftOffer(t)

	rendered, data, err := f.service.Render(context.Background(), doc.ID)
	require.NoError(t, err)
	require.NotNil(t, rendered.Number)
	assert.Equal(t, "AN-0001", *rendered.Number)
	assert.Equal(t, []byte("%PDF-fake"), data)
	assert.Equal(t, StatusFinalized, rendered.Status)
	assert.Equal(t, 250.00, rendered.Totals.NetSubtotal)
	assert.Equal(t, 297.50, rendered.Totals.GrossTotal)

	// A second render keeps the number and does not burn another sequence.
	again, _, err := f.service.Render(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "AN-0001", *again.Number)
	assert.Equal(t, int64(1), f.repo.sequences["1:OFFER"])
}

func TestReRenderDeletesReplacedAsset(t *testing.T) {
	f := newFixture()
	doc := f.draftOffer(t)

	_, _, err := f.service.Render(context.Background(), doc.ID)
	require.NoError(t, err)
	_, _, err = f.service.Render(context.Background(), doc.ID)
	require.NoError(t, err)

	// The first PDF blob must not survive as an orphan.
	require.Len(t, f.assets.stored, 1)
	_, ok := f.assets.stored["asset-2"]
	assert.True(t, ok)

	rendered, err := f.repo.Get(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "asset-2", *rendered.AssetKey)
}

func TestFormatNumber(t *testing.T) {
	s := profiles.Settings{InvoicePrefix: "RE-", InvoiceSuffix: "/HH"}
	assert.Equal(t, "RE-0007/HH", FormatNumber(s, KindInvoice, 7))
	assert.Equal(t, "0042", FormatNumber(profiles.Settings{}, KindOffer, 42))
}

func TestConvertOfferToConfirmation(t *testing.T) {
	f := newFixture()
	offer := f.draftOffer(t)
	_, _, err := f.service.Render(context.Background(), offer.ID)
	require.NoError(t, err)

	confirmation, data, err := f.service.ConvertOfferToConfirmation(context.Background(), offer.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), data)
	assert.Equal(t, KindConfirmation, confirmation.Kind)
	assert.Equal(t, "AB-0001", *confirmation.Number)
	require.NotNil(t, confirmation.ParentNumber)
	assert.Equal(t, "AN-0001", *confirmation.ParentNumber)

	// The derived document reconciles to the same figures.
	source, err := f.service.Get(context.Background(), offer.ID)
	require.NoError(t, err)
	assert.Equal(t, source.Totals, confirmation.Totals)
	assert.Equal(t, StatusConverted, source.Status)

	// Parent reference reaches the render payload.
	assert.Equal(t, "AN-0001", f.renderer.lastPayload.ParentNumber)
}

func TestConvertConfirmationToInvoiceEnqueuesDelivery(t *testing.T) {
	f := newFixture()
	offer := f.draftOffer(t)
	_, _, err := f.service.Render(context.Background(), offer.ID)
	require.NoError(t, err)
	assert.Empty(t, f.queue.tasks, "offers are not dispatched")

	confirmation, _, err := f.service.ConvertOfferToConfirmation(context.Background(), offer.ID)
	require.NoError(t, err)

	invoice, _, err := f.service.ConvertConfirmationToInvoice(context.Background(), confirmation.ID)
	require.NoError(t, err)
	assert.Equal(t, "RE-0001-2026", *invoice.Number)
	// Invoice due date uses payment terms, not offer validity.
	assert.Equal(t, invoice.IssueDate.AddDate(0, 0, 14), invoice.DueDate)

	require.Len(t, f.queue.tasks, 1)
	assert.Equal(t, jobs.TaskDocumentDeliver, f.queue.tasks[0].Type())
}

func TestConvertRequiresFinalizedSource(t *testing.T) {
	f := newFixture()
	offer := f.draftOffer(t)

	_, _, err := f.service.ConvertOfferToConfirmation(context.Background(), offer.ID)
	assert.ErrorIs(t, err, ErrNotFinalized)
}

func TestConvertRejectsWrongKind(t *testing.T) {
	f := newFixture()
	offer := f.draftOffer(t)
	_, _, err := f.service.Render(context.Background(), offer.ID)
	require.NoError(t, err)

	_, _, err = f.service.ConvertConfirmationToInvoice(context.Background(), offer.ID)
	assert.ErrorIs(t, err, ErrWrongKind)
}

func TestRenderFailsWhenAssetStoreFails(t *testing.T) {
	f := newFixture()
	doc := f.draftOffer(t)
	f.assets.storeError = errors.New("bucket gone")

	_, _, err := f.service.Render(context.Background(), doc.ID)
	require.Error(t, err)

	// The document must not look generated, but the allocated number is a
	// permanent gap by design.
	stored, getErr := f.service.Get(context.Background(), doc.ID)
	require.NoError(t, getErr)
	assert.Equal(t, StatusDraft, stored.Status)
	assert.Nil(t, stored.AssetKey)
	assert.Equal(t, int64(1), f.repo.sequences["1:OFFER"])
}

func TestRenderFailsWithoutCustomer(t *testing.T) {
	f := newFixture()
	doc := f.draftOffer(t)
	f.service.customers = &mockCustomers{err: customers.ErrNotFound}

	_, _, err := f.service.Render(context.Background(), doc.ID)
	assert.ErrorIs(t, err, customers.ErrNotFound)
}

func TestRenderMissingLetterheadIsFatal(t *testing.T) {
	f := newFixture()
	doc := f.draftOffer(t)
	key := "letterhead-1"
	profileDir := &mockProfiles{
		profile:  &profiles.Profile{ID: 1, Name: "Werkstatt Nord GmbH", LetterheadKey: &key},
		settings: profiles.DefaultSettings(1),
	}
	f.service.profiles = profileDir

	_, _, err := f.service.Render(context.Background(), doc.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, assets.ErrNotFound)
}

func TestRenderMissingLogoDegrades(t *testing.T) {
	f := newFixture()
	doc := f.draftOffer(t)
	key := "logo-1"
	profileDir := &mockProfiles{
		profile:  &profiles.Profile{ID: 1, Name: "Werkstatt Nord GmbH", LogoKey: &key},
		settings: profiles.DefaultSettings(1),
	}
	f.service.profiles = profileDir

	rendered, _, err := f.service.Render(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Nil(t, f.renderer.lastPayload.Logo)
	assert.Equal(t, StatusFinalized, rendered.Status)
}

func TestDocumentPDF(t *testing.T) {
	f := newFixture()
	doc := f.draftOffer(t)

	_, err := f.service.DocumentPDF(context.Background(), doc.ID)
	assert.ErrorIs(t, err, ErrNotFinalized)

	_, _, err = f.service.Render(context.Background(), doc.ID)
	require.NoError(t, err)

	data, err := f.service.DocumentPDF(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), data)
}
