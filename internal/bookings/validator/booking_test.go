package validator

import (
	"testing"

	apperrors "reservio/pkg/errors"
	"reservio/pkg/model"
)

func valid() *model.Booking {
	return &model.Booking{
		ResourceKind: model.KindRoom,
		ResourceCode: "cse-101",
		Date:         "2026-03-14",
		From:         "09:00",
		To:           "10:00",
		CreatedBy:    "user-1",
	}
}

func TestValidateBooking(t *testing.T) {
	bv := New()

	tests := []struct {
		name    string
		mutate  func(*model.Booking)
		wantErr bool
	}{
		{"valid", func(*model.Booking) {}, false},
		{"valid equipment kind", func(b *model.Booking) { b.ResourceKind = model.KindEquipment }, false},
		{"missing kind", func(b *model.Booking) { b.ResourceKind = "" }, true},
		{"unknown kind", func(b *model.Booking) { b.ResourceKind = "vehicle" }, true},
		{"missing code", func(b *model.Booking) { b.ResourceCode = "" }, true},
		{"bad date month", func(b *model.Booking) { b.Date = "2026-13-01" }, true},
		{"date wrong shape", func(b *model.Booking) { b.Date = "14-03-2026" }, true},
		{"bad from", func(b *model.Booking) { b.From = "9:00" }, true},
		{"bad to", func(b *model.Booking) { b.To = "24:00" }, true},
		{"missing creator", func(b *model.Booking) { b.CreatedBy = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := valid()
			tt.mutate(b)

			err := bv.ValidateBooking(b)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateBooking() error = %v, wantErr %v", err, tt.wantErr)
			}

			if err != nil {
				appErr, ok := err.(*apperrors.AppError)
				if !ok {
					t.Fatalf("expected *AppError, got %T", err)
				}
				if appErr.Code != apperrors.CodeValidation {
					t.Errorf("error code = %s, want %s", appErr.Code, apperrors.CodeValidation)
				}
			}
		})
	}
}

func TestValidateWindow(t *testing.T) {
	bv := New()

	tests := []struct {
		name     string
		from, to string
		wantErr  bool
	}{
		{"valid window", "09:00", "10:00", false},
		{"from equals to", "09:00", "09:00", true},
		{"from after to", "10:00", "09:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := valid()
			b.From, b.To = tt.from, tt.to

			err := bv.ValidateWindow(b)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateWindow() error = %v, wantErr %v", err, tt.wantErr)
			}

			if err != nil {
				appErr, ok := err.(*apperrors.AppError)
				if !ok {
					t.Fatalf("expected *AppError, got %T", err)
				}
				if appErr.Code != apperrors.CodeValidation {
					t.Errorf("error code = %s, want %s", appErr.Code, apperrors.CodeValidation)
				}
			}
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	bv := New()

	tests := []struct {
		name    string
		update  model.BookingUpdate
		wantErr bool
	}{
		{"empty patch", model.BookingUpdate{}, false},
		{"reason only", model.BookingUpdate{Reason: "moved"}, false},
		{"valid slot move", model.BookingUpdate{Date: "2026-03-15", From: "10:00", To: "11:00"}, false},
		{"bad date", model.BookingUpdate{Date: "2026-00-10"}, true},
		{"bad clock", model.BookingUpdate{From: "10:5"}, true},
		{"unknown kind", model.BookingUpdate{ResourceKind: "vehicle"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := bv.ValidateUpdate(&tt.update)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateUpdate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
