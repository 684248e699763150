package service

import (
	"context"
	"errors"
	"testing"

	"github.com/atelierhq/storefront/internal/domain"
	"github.com/atelierhq/storefront/internal/storage/memory"
)

func seedRegions(t *testing.T) (*RegionService, *domain.PricingRegion, *domain.PricingRegion) {
	t.Helper()
	svc := NewRegionService(memory.New())
	ctx := context.Background()

	eu, err := svc.Create(ctx, &domain.CreateRegionRequest{
		Code:      "eu",
		Name:      "Europe",
		Currency:  "eur",
		Countries: []string{"de", "fr"},
	})
	if err != nil {
		t.Fatalf("create EU: %v", err)
	}
	row, err := svc.Create(ctx, &domain.CreateRegionRequest{
		Code:      "ROW",
		Name:      "Rest of World",
		Currency:  "USD",
		IsDefault: true,
	})
	if err != nil {
		t.Fatalf("create ROW: %v", err)
	}
	return svc, eu, row
}

func TestCreateNormalizes(t *testing.T) {
	_, eu, _ := seedRegions(t)

	if eu.Code != "EU" {
		t.Errorf("code: got %q, want EU", eu.Code)
	}
	if eu.Currency != "EUR" {
		t.Errorf("currency: got %q, want EUR", eu.Currency)
	}
	want := []string{"DE", "FR"}
	if len(eu.Countries) != len(want) {
		t.Fatalf("countries: got %v, want %v", eu.Countries, want)
	}
	for i, c := range want {
		if eu.Countries[i] != c {
			t.Errorf("countries[%d]: got %q, want %q", i, eu.Countries[i], c)
		}
	}
}

func TestResolve(t *testing.T) {
	svc, eu, row := seedRegions(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		country string
		wantID  string
	}{
		{"exact match", "FR", eu.ID},
		{"lowercase input", "de", eu.ID},
		{"unmapped country falls back to default", "JP", row.ID},
		{"empty country falls back to default", "", row.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			region, err := svc.Resolve(ctx, tt.country)
			if err != nil {
				t.Fatalf("Resolve(%q): %v", tt.country, err)
			}
			if region == nil || region.ID != tt.wantID {
				t.Errorf("Resolve(%q): got %+v, want region %s", tt.country, region, tt.wantID)
			}
		})
	}
}

func TestResolveNoDefault(t *testing.T) {
	svc := NewRegionService(memory.New())
	ctx := context.Background()

	if _, err := svc.Create(ctx, &domain.CreateRegionRequest{
		Code: "EU", Name: "Europe", Currency: "EUR", Countries: []string{"DE"},
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	region, err := svc.Resolve(ctx, "JP")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if region != nil {
		t.Errorf("Resolve without default: got %+v, want nil", region)
	}
}

func TestCreateDuplicateCode(t *testing.T) {
	svc, _, _ := seedRegions(t)

	_, err := svc.Create(context.Background(), &domain.CreateRegionRequest{
		Code: "eu", Name: "Europe Again", Currency: "EUR",
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("duplicate code: got %v, want ErrConflict", err)
	}
}

func TestDefaultFlipLeavesOneDefault(t *testing.T) {
	svc, eu, row := seedRegions(t)
	ctx := context.Background()

	makeDefault := true
	if _, err := svc.Update(ctx, eu.ID, &domain.UpdateRegionRequest{IsDefault: &makeDefault}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	regions, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var defaults []string
	for _, r := range regions {
		if r.IsDefault {
			defaults = append(defaults, r.ID)
		}
	}
	if len(defaults) != 1 || defaults[0] != eu.ID {
		t.Errorf("defaults after flip: got %v, want [%s]", defaults, eu.ID)
	}

	got, err := svc.Get(ctx, row.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.IsDefault {
		t.Error("previous default was not cleared")
	}
}

func TestDeleteDefaultProtected(t *testing.T) {
	svc, _, row := seedRegions(t)
	ctx := context.Background()

	if err := svc.Delete(ctx, row.ID); !errors.Is(err, domain.ErrDefaultRegionProtected) {
		t.Fatalf("delete default: got %v, want ErrDefaultRegionProtected", err)
	}
	// The region must survive the refused delete.
	if _, err := svc.Get(ctx, row.ID); err != nil {
		t.Errorf("default region gone after refused delete: %v", err)
	}
}

func TestDeleteCascadesOverrides(t *testing.T) {
	svc, eu, _ := seedRegions(t)
	ctx := context.Background()

	if _, err := svc.SetPriceOverride(ctx, eu.ID, &domain.SetPriceOverrideRequest{
		ProductID: "prod-1",
		Amount:    1999,
	}); err != nil {
		t.Fatalf("SetPriceOverride: %v", err)
	}

	if err := svc.Delete(ctx, eu.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, eu.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get after delete: got %v, want ErrNotFound", err)
	}
	if _, err := svc.ListPriceOverrides(ctx, eu.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("ListPriceOverrides after delete: got %v, want ErrNotFound", err)
	}
}

func TestSetPriceOverrideUpserts(t *testing.T) {
	svc, eu, _ := seedRegions(t)
	ctx := context.Background()

	if _, err := svc.SetPriceOverride(ctx, eu.ID, &domain.SetPriceOverrideRequest{ProductID: "prod-1", Amount: 1000}); err != nil {
		t.Fatalf("first set: %v", err)
	}
	if _, err := svc.SetPriceOverride(ctx, eu.ID, &domain.SetPriceOverrideRequest{ProductID: "prod-1", Amount: 1500}); err != nil {
		t.Fatalf("second set: %v", err)
	}

	overrides, err := svc.ListPriceOverrides(ctx, eu.ID)
	if err != nil {
		t.Fatalf("ListPriceOverrides: %v", err)
	}
	if len(overrides) != 1 {
		t.Fatalf("overrides: got %d, want 1", len(overrides))
	}
	if overrides[0].Amount != 1500 {
		t.Errorf("amount: got %d, want 1500", overrides[0].Amount)
	}
}

func TestSetPriceOverrideValidation(t *testing.T) {
	svc, eu, _ := seedRegions(t)
	ctx := context.Background()

	if _, err := svc.SetPriceOverride(ctx, eu.ID, &domain.SetPriceOverrideRequest{ProductID: " ", Amount: 100}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("empty product: got %v, want ErrInvalidInput", err)
	}
	if _, err := svc.SetPriceOverride(ctx, eu.ID, &domain.SetPriceOverrideRequest{ProductID: "p", Amount: -1}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("negative amount: got %v, want ErrInvalidInput", err)
	}
	if _, err := svc.SetPriceOverride(ctx, "missing", &domain.SetPriceOverrideRequest{ProductID: "p", Amount: 1}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown region: got %v, want ErrNotFound", err)
	}
}
