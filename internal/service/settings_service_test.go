package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

type mockSettingValues struct {
	values map[string]string
	err    error
}

func (m *mockSettingValues) Value(_ context.Context, name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.values[name], nil
}

func TestSettingsHours(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
		err    error
		want   time.Duration
	}{
		{
			name:   "parsable value",
			values: map[string]string{SettingNotInWorkWarningHours: "3"},
			want:   3 * time.Hour,
		},
		{
			name:   "value with spaces",
			values: map[string]string{SettingNotInWorkWarningHours: "  48  "},
			want:   48 * time.Hour,
		},
		{
			name:   "absent value falls back",
			values: map[string]string{},
			want:   72 * time.Hour,
		},
		{
			name:   "blank value falls back",
			values: map[string]string{SettingNotInWorkWarningHours: "   "},
			want:   72 * time.Hour,
		},
		{
			name:   "garbage falls back",
			values: map[string]string{SettingNotInWorkWarningHours: "трое суток"},
			want:   72 * time.Hour,
		},
		{
			name:   "non-positive falls back",
			values: map[string]string{SettingNotInWorkWarningHours: "-5"},
			want:   72 * time.Hour,
		},
		{
			name: "storage error falls back",
			err:  errors.New("connection refused"),
			want: 72 * time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewSettingsService(&mockSettingValues{values: tt.values, err: tt.err}, zap.NewNop())

			got := svc.Hours(context.Background(), SettingNotInWorkWarningHours, 72*time.Hour)
			if got != tt.want {
				t.Errorf("Hours() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSettingsInt(t *testing.T) {
	svc := NewSettingsService(&mockSettingValues{
		values: map[string]string{SettingContractorHourRate: "650"},
	}, zap.NewNop())

	if got := svc.Int(context.Background(), SettingContractorHourRate, 500); got != 650 {
		t.Errorf("Int() = %d, want 650", got)
	}
	if got := svc.Int(context.Background(), "missing_setting", 500); got != 500 {
		t.Errorf("Int() fallback = %d, want 500", got)
	}
}
