package finance

import (
	"context"
	"sync"
)

// =============================================================================
// SETTINGS STORE
// =============================================================================

// SettingsStore persists the application settings as a single partial
// object. Reads merge the stored value shallowly over DefaultSettings, so
// fields added later simply pick up their defaults.
type SettingsStore struct {
	kv KV

	mu   sync.Mutex
	subs []func(Settings)
}

// settingsRecord is the stored shape. Pointer fields distinguish "absent"
// from zero so a partial object round-trips unchanged.
type settingsRecord struct {
	MonthStartDay  *int      `json:"monthStartDay,omitempty"`
	Currency       *string   `json:"currency,omitempty"`
	CurrencySymbol *string   `json:"currencySymbol,omitempty"`
	Language       *Language `json:"language,omitempty"`
}

// SettingsPatch is a partial update. Nil fields are left unchanged.
type SettingsPatch struct {
	MonthStartDay  *int      `json:"monthStartDay,omitempty"`
	Currency       *string   `json:"currency,omitempty"`
	CurrencySymbol *string   `json:"currencySymbol,omitempty"`
	Language       *Language `json:"language,omitempty"`
}

func NewSettingsStore(kv KV) *SettingsStore {
	return &SettingsStore{kv: kv}
}

// Get returns the stored settings merged over defaults.
func (s *SettingsStore) Get(ctx context.Context) (Settings, error) {
	rec, err := s.load(ctx)
	if err != nil {
		return Settings{}, err
	}
	return rec.merged(), nil
}

// MonthStartDay returns the configured month start day (default 1).
func (s *SettingsStore) MonthStartDay(ctx context.Context) (int, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return 0, err
	}
	return settings.MonthStartDay, nil
}

// Update applies a partial update. Validation happens before any write:
// a rejected patch leaves the stored settings untouched.
func (s *SettingsStore) Update(ctx context.Context, patch SettingsPatch) (Settings, error) {
	if patch.MonthStartDay != nil && (*patch.MonthStartDay < 1 || *patch.MonthStartDay > 31) {
		return Settings{}, &FieldError{Field: "monthStartDay", Value: *patch.MonthStartDay, Err: ErrInvalidMonthStartDay}
	}
	if patch.Language != nil && !patch.Language.Valid() {
		return Settings{}, &FieldError{Field: "language", Value: *patch.Language, Err: ErrInvalidLanguage}
	}

	rec, err := s.load(ctx)
	if err != nil {
		return Settings{}, err
	}
	if patch.MonthStartDay != nil {
		rec.MonthStartDay = patch.MonthStartDay
	}
	if patch.Currency != nil {
		rec.Currency = patch.Currency
	}
	if patch.CurrencySymbol != nil {
		rec.CurrencySymbol = patch.CurrencySymbol
	}
	if patch.Language != nil {
		rec.Language = patch.Language
	}

	if err := writeCollection(ctx, s.kv, KeySettings, rec); err != nil {
		return Settings{}, err
	}
	merged := rec.merged()
	s.notify(merged)
	return merged, nil
}

// SetMonthStartDay stores the month start day, rejecting values outside [1,31].
func (s *SettingsStore) SetMonthStartDay(ctx context.Context, day int) error {
	_, err := s.Update(ctx, SettingsPatch{MonthStartDay: &day})
	return err
}

// SetCurrency stores the currency code and its display symbol together.
func (s *SettingsStore) SetCurrency(ctx context.Context, code, symbol string) error {
	_, err := s.Update(ctx, SettingsPatch{Currency: &code, CurrencySymbol: &symbol})
	return err
}

// SetLanguage stores the UI language.
func (s *SettingsStore) SetLanguage(ctx context.Context, lang Language) error {
	_, err := s.Update(ctx, SettingsPatch{Language: &lang})
	return err
}

// Subscribe registers a callback invoked with the merged settings after
// every successful write.
func (s *SettingsStore) Subscribe(fn func(Settings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *SettingsStore) notify(settings Settings) {
	s.mu.Lock()
	subs := append([]func(Settings){}, s.subs...)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(settings)
	}
}

func (s *SettingsStore) load(ctx context.Context) (settingsRecord, error) {
	var rec settingsRecord
	if err := readCollection(ctx, s.kv, KeySettings, &rec); err != nil {
		return settingsRecord{}, err
	}
	return rec, nil
}

func (r settingsRecord) merged() Settings {
	settings := DefaultSettings()
	if r.MonthStartDay != nil {
		settings.MonthStartDay = *r.MonthStartDay
	}
	if r.Currency != nil {
		settings.Currency = *r.Currency
	}
	if r.CurrencySymbol != nil {
		settings.CurrencySymbol = *r.CurrencySymbol
	}
	if r.Language != nil {
		settings.Language = *r.Language
	}
	return settings
}
