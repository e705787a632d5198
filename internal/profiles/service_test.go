package profiles

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	profile  Profile
	settings map[int64]Settings
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		profile:  Profile{ID: 1, Name: "Werkstatt Nord GmbH", Street: "Hafenstraße 12", PostalCode: "20457", City: "Hamburg"},
		settings: make(map[int64]Settings),
	}
}

func (m *mockRepo) GetProfile(_ context.Context, id int64) (*Profile, error) {
	if id != m.profile.ID {
		return nil, ErrNotFound
	}
	p := m.profile
	return &p, nil
}

func (m *mockRepo) UpdateProfile(_ context.Context, p Profile) error {
	if p.ID != m.profile.ID {
		return ErrNotFound
	}
	m.profile = p
	return nil
}

func (m *mockRepo) GetSettings(_ context.Context, profileID int64) (*Settings, error) {
	if s, ok := m.settings[profileID]; ok {
		return &s, nil
	}
	defaults := DefaultSettings(profileID)
	return &defaults, nil
}

func (m *mockRepo) SaveSettings(_ context.Context, s Settings) error {
	m.settings[s.ProfileID] = s
	return nil
}

type mockAssetStore struct {
	stored  map[string][]byte
	deleted []string
}

func newMockAssetStore() *mockAssetStore {
	return &mockAssetStore{stored: make(map[string][]byte)}
}

func (m *mockAssetStore) Store(_ context.Context, _ string, data []byte) (string, error) {
	key := fmt.Sprintf("asset-%d", len(m.stored)+1)
	m.stored[key] = data
	return key, nil
}

func (m *mockAssetStore) Delete(_ context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	delete(m.stored, key)
	return nil
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func TestUploadBranding(t *testing.T) {
	repo := newMockRepo()
	store := newMockAssetStore()
	svc := NewService(repo, store, nil)

	p, err := svc.UploadBranding(context.Background(), 1, SlotLogo, pngBytes(t))
	require.NoError(t, err)
	require.NotNil(t, p.LogoKey)
	assert.Nil(t, p.LetterheadKey)
	assert.Empty(t, store.deleted)
	first := *p.LogoKey

	// A second upload replaces the stored image.
	p, err = svc.UploadBranding(context.Background(), 1, SlotLogo, pngBytes(t))
	require.NoError(t, err)
	assert.NotEqual(t, first, *p.LogoKey)
	assert.Equal(t, []string{first}, store.deleted)
}

func TestUploadBrandingRejectsNonImage(t *testing.T) {
	svc := NewService(newMockRepo(), newMockAssetStore(), nil)

	_, err := svc.UploadBranding(context.Background(), 1, SlotLetterhead, []byte("not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestRemoveBranding(t *testing.T) {
	repo := newMockRepo()
	store := newMockAssetStore()
	svc := NewService(repo, store, nil)

	p, err := svc.UploadBranding(context.Background(), 1, SlotLetterhead, pngBytes(t))
	require.NoError(t, err)
	key := *p.LetterheadKey

	p, err = svc.RemoveBranding(context.Background(), 1, SlotLetterhead)
	require.NoError(t, err)
	assert.Nil(t, p.LetterheadKey)
	assert.Contains(t, store.deleted, key)

	// Removing again is a no-op.
	_, err = svc.RemoveBranding(context.Background(), 1, SlotLetterhead)
	require.NoError(t, err)
	assert.Len(t, store.deleted, 1)
}

func TestSaveAndGetSettings(t *testing.T) {
	svc := NewService(newMockRepo(), newMockAssetStore(), nil)

	s, err := svc.GetSettings(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "AN-", s.OfferPrefix, "defaults apply before anything was saved")

	saved, err := svc.SaveSettings(context.Background(), 1, SettingsRequest{
		InvoicePrefix:    "RE-",
		InvoiceSuffix:    "-2026",
		PaymentTermsDays: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, "-2026", saved.InvoiceSuffix)
	assert.Equal(t, 30, saved.PaymentTermsDays)
}
