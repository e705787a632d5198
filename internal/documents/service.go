package documents

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/belegwerk/belegwerk/internal/assets"
	"github.com/belegwerk/belegwerk/internal/customers"
	"github.com/belegwerk/belegwerk/internal/profiles"
	"github.com/belegwerk/belegwerk/internal/render"
	"github.com/belegwerk/belegwerk/jobs"
)

// CustomerDirectory resolves recipient parties.
type CustomerDirectory interface {
	Get(ctx context.Context, id int64) (*customers.Customer, error)
}

// ProfileDirectory resolves the sender profile and its billing settings.
type ProfileDirectory interface {
	GetProfile(ctx context.Context, id int64) (*profiles.Profile, error)
	GetSettings(ctx context.Context, profileID int64) (*profiles.Settings, error)
}

// AssetStore persists and serves binary blobs.
type AssetStore interface {
	Store(ctx context.Context, mime string, data []byte) (string, error)
	Fetch(ctx context.Context, key string) (*assets.Asset, error)
	Delete(ctx context.Context, key string) error
}

// Renderer produces the finished page stream for a payload.
type Renderer interface {
	Render(p render.Payload) ([]byte, render.MoneySummary, error)
}

// Queue enqueues background tasks. *asynq.Client satisfies it.
type Queue interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Service drives the document lifecycle: create draft, render, convert.
type Service struct {
	repo      Repository
	customers CustomerDirectory
	profiles  ProfileDirectory
	assets    AssetStore
	renderer  Renderer
	queue     Queue
	logger    *slog.Logger
	now       func() time.Time
}

// NewService constructs the document service. queue may be nil; rendered
// invoices are then simply not dispatched.
func NewService(
	repo Repository,
	customerDir CustomerDirectory,
	profileDir ProfileDirectory,
	assetStore AssetStore,
	renderer Renderer,
	queue Queue,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		customers: customerDir,
		profiles:  profileDir,
		assets:    assetStore,
		renderer:  renderer,
		queue:     queue,
		logger:    logger,
		now:       time.Now,
	}
}

// Create stores a new draft document.
func (s *Service) Create(ctx context.Context, req CreateDocumentRequest) (*Document, error) {
	if _, err := s.customers.Get(ctx, req.CustomerID); err != nil {
		return nil, fmt.Errorf("verify customer: %w", err)
	}
	settings, err := s.profiles.GetSettings(ctx, req.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	issue := s.now().UTC().Truncate(24 * time.Hour)
	if req.IssueDate != nil {
		issue = *req.IssueDate
	}
	doc := Document{
		Kind:       Kind(req.Kind),
		Status:     StatusDraft,
		ProfileID:  req.ProfileID,
		CustomerID: req.CustomerID,
		IssueDate:  issue,
		DueDate:    issue.AddDate(0, 0, secondaryDateSpan(Kind(req.Kind), settings)),
		TaxRate:    float64(req.TaxRate),
		Intro:      req.Intro,
		Discount:   req.discount(),
		Positions:  req.positions(),
	}

	id, err := s.repo.Create(ctx, doc)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Get loads one document with its positions.
func (s *Service) Get(ctx context.Context, id int64) (*Document, error) {
	return s.repo.Get(ctx, id)
}

// List returns documents matching the filter.
func (s *Service) List(ctx context.Context, req ListDocumentsRequest) ([]Document, error) {
	return s.repo.List(ctx, req)
}

// Render produces the PDF for a document. On the first render the next
// sequence number for the document's kind is allocated and persisted before
// the layout starts, so a later failure can never hand the same number out
// twice (the gap is accepted). The rendered bytes are stored as an asset and
// the recomputed totals are persisted on the document.
func (s *Service) Render(ctx context.Context, id int64) (*Document, []byte, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	customer, err := s.customers.Get(ctx, doc.CustomerID)
	if err != nil {
		return nil, nil, fmt.Errorf("load customer: %w", err)
	}
	profile, err := s.profiles.GetProfile(ctx, doc.ProfileID)
	if err != nil {
		return nil, nil, fmt.Errorf("load profile: %w", err)
	}
	settings, err := s.profiles.GetSettings(ctx, doc.ProfileID)
	if err != nil {
		return nil, nil, fmt.Errorf("load settings: %w", err)
	}

	if doc.Number == nil {
		err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
			seq, err := repo.GenerateNumber(ctx, doc.ProfileID, doc.Kind)
			if err != nil {
				return err
			}
			number := FormatNumber(*settings, doc.Kind, seq)
			if err := repo.SetNumber(ctx, doc.ID, number, seq); err != nil {
				return err
			}
			doc.Number = &number
			doc.SequenceNo = &seq
			return nil
		})
		if err != nil {
			return nil, nil, fmt.Errorf("allocate number: %w", err)
		}
	}

	payload, err := s.buildPayload(ctx, doc, customer, profile)
	if err != nil {
		return nil, nil, err
	}

	data, sum, err := s.renderer.Render(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("render document: %w", err)
	}

	key, err := s.assets.Store(ctx, "application/pdf", data)
	if err != nil {
		// Bytes were produced, but without stored output the document must
		// not count as generated.
		return nil, nil, fmt.Errorf("store document asset: %w", err)
	}

	totals := Totals{
		NetSubtotal:      sum.NetSubtotal,
		DiscountAmount:   sum.DiscountAmount,
		NetAfterDiscount: sum.NetAfterDiscount,
		TaxAmount:        sum.TaxAmount,
		GrossTotal:       sum.GrossTotal,
	}
	if err := s.repo.SetRendered(ctx, doc.ID, totals, key); err != nil {
		return nil, nil, fmt.Errorf("persist render result: %w", err)
	}
	if previous := doc.AssetKey; previous != nil && *previous != key {
		if err := s.assets.Delete(ctx, *previous); err != nil {
			s.logger.Warn("delete replaced document asset", slog.String("key", *previous), slog.Any("error", err))
		}
	}
	doc.Totals = totals
	doc.AssetKey = &key
	doc.Status = StatusFinalized

	s.dispatch(ctx, doc, customer)
	return doc, data, nil
}

// ConvertOfferToConfirmation derives an order confirmation from a finalized
// offer and renders it immediately. The confirmation carries the offer's
// positions, tax rate and discount plus a back-reference to its number.
func (s *Service) ConvertOfferToConfirmation(ctx context.Context, offerID int64) (*Document, []byte, error) {
	return s.convert(ctx, offerID, KindOffer, KindConfirmation)
}

// ConvertConfirmationToInvoice derives an invoice from a finalized order
// confirmation and renders it immediately.
func (s *Service) ConvertConfirmationToInvoice(ctx context.Context, confirmationID int64) (*Document, []byte, error) {
	return s.convert(ctx, confirmationID, KindConfirmation, KindInvoice)
}

func (s *Service) convert(ctx context.Context, sourceID int64, from, to Kind) (*Document, []byte, error) {
	source, err := s.repo.Get(ctx, sourceID)
	if err != nil {
		return nil, nil, err
	}
	if source.Kind != from {
		return nil, nil, fmt.Errorf("%w: have %s, want %s", ErrWrongKind, source.Kind, from)
	}
	if source.Number == nil {
		return nil, nil, ErrNotFinalized
	}
	settings, err := s.profiles.GetSettings(ctx, source.ProfileID)
	if err != nil {
		return nil, nil, fmt.Errorf("load settings: %w", err)
	}

	issue := s.now().UTC().Truncate(24 * time.Hour)
	derived := Document{
		Kind:         to,
		Status:       StatusDraft,
		ProfileID:    source.ProfileID,
		CustomerID:   source.CustomerID,
		IssueDate:    issue,
		DueDate:      issue.AddDate(0, 0, secondaryDateSpan(to, settings)),
		TaxRate:      source.TaxRate,
		Discount:     source.Discount,
		ParentID:     &source.ID,
		ParentNumber: source.Number,
		Positions:    source.Positions,
	}
	for i := range derived.Positions {
		derived.Positions[i].ID = 0
		derived.Positions[i].DocumentID = 0
	}

	id, err := s.repo.Create(ctx, derived)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", to, err)
	}

	doc, data, err := s.Render(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if err := s.repo.SetStatus(ctx, source.ID, StatusConverted); err != nil {
		s.logger.Warn("mark source converted", slog.Int64("id", source.ID), slog.Any("error", err))
	}
	return doc, data, nil
}

// DocumentPDF returns the stored page stream of a rendered document.
func (s *Service) DocumentPDF(ctx context.Context, id int64) ([]byte, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.AssetKey == nil {
		return nil, ErrNotFinalized
	}
	asset, err := s.assets.Fetch(ctx, *doc.AssetKey)
	if err != nil {
		return nil, fmt.Errorf("fetch document asset: %w", err)
	}
	return asset.Data, nil
}

func (s *Service) buildPayload(ctx context.Context, doc *Document, customer *customers.Customer, profile *profiles.Profile) (render.Payload, error) {
	payload := render.Payload{
		Flavor:    render.FlavorFor(doc.Kind.renderKind()),
		Number:    *doc.Number,
		IssueDate: doc.IssueDate,
		DueDate:   doc.DueDate,
		Intro:     doc.Intro,
		Positions: doc.renderPositions(),
		TaxRate:   doc.TaxRate,
		Discount:  doc.renderDiscount(),
		Sender: render.Sender{
			Name:       profile.Name,
			Street:     profile.Street,
			PostalCode: profile.PostalCode,
			City:       profile.City,
			Phone:      profile.Phone,
			Email:      profile.Email,
			Website:    profile.Website,
			TaxID:      profile.TaxID,
			BankName:   profile.BankName,
			IBAN:       profile.IBAN,
			BIC:        profile.BIC,
		},
		Recipient: render.Party{
			Name:           customer.Name,
			Street:         customer.Street,
			PostalCode:     customer.PostalCode,
			City:           customer.City,
			CustomerNumber: customer.Number,
		},
	}
	if doc.ParentNumber != nil {
		payload.ParentNumber = *doc.ParentNumber
	}

	if profile.LogoKey != nil {
		asset, err := s.assets.Fetch(ctx, *profile.LogoKey)
		if err != nil {
			// A missing logo degrades to an empty header band.
			s.logger.Warn("logo asset unavailable", slog.String("key", *profile.LogoKey), slog.Any("error", err))
		} else {
			payload.Logo = &render.ImageAsset{Data: asset.Data, Mime: asset.Mime}
		}
	}
	if profile.LetterheadKey != nil {
		asset, err := s.assets.Fetch(ctx, *profile.LetterheadKey)
		if err != nil {
			// The background template is part of the fixed layout; without
			// it the document must not be produced at all.
			return render.Payload{}, fmt.Errorf("fetch letterhead template: %w", err)
		}
		payload.Letterhead = &render.ImageAsset{Data: asset.Data, Mime: asset.Mime}
	}
	return payload, nil
}

// dispatch queues outbound delivery of a rendered invoice. Delivery is best
// effort; a queue failure never fails the render.
func (s *Service) dispatch(ctx context.Context, doc *Document, customer *customers.Customer) {
	if s.queue == nil || doc.Kind != KindInvoice || customer.Email == "" {
		return
	}
	task, err := jobs.NewDocumentDeliverTask(jobs.DocumentDeliverPayload{
		DocumentID: doc.ID,
		Number:     *doc.Number,
		Recipient:  customer.Email,
	})
	if err != nil {
		s.logger.Warn("build deliver task", slog.Any("error", err))
		return
	}
	if _, err := s.queue.EnqueueContext(ctx, task, asynq.Queue(jobs.QueueDefault)); err != nil {
		s.logger.Warn("enqueue deliver task", slog.Int64("document", doc.ID), slog.Any("error", err))
	}
}

// FormatNumber builds the display number prefix + sequence + suffix for a
// document kind from the profile's billing settings.
func FormatNumber(s profiles.Settings, kind Kind, seq int64) string {
	var prefix, suffix string
	switch kind {
	case KindConfirmation:
		prefix, suffix = s.ConfirmationPrefix, s.ConfirmationSuffix
	case KindInvoice:
		prefix, suffix = s.InvoicePrefix, s.InvoiceSuffix
	default:
		prefix, suffix = s.OfferPrefix, s.OfferSuffix
	}
	return fmt.Sprintf("%s%04d%s", prefix, seq, suffix)
}

func secondaryDateSpan(kind Kind, s *profiles.Settings) int {
	days := 14
	if s == nil {
		return days
	}
	switch kind {
	case KindOffer:
		if s.OfferValidityDays > 0 {
			days = s.OfferValidityDays
		}
	default:
		if s.PaymentTermsDays > 0 {
			days = s.PaymentTermsDays
		}
	}
	return days
}
