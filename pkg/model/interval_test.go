package model

import "testing"

func TestNewTimeInterval(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		from    string
		to      string
		wantErr bool
	}{
		{"valid interval", "2026-03-14", "09:00", "10:30", false},
		{"midnight start", "2026-03-14", "00:00", "01:00", false},
		{"last minute of day", "2026-03-14", "23:00", "23:59", false},
		{"from equals to", "2026-03-14", "09:00", "09:00", true},
		{"from after to", "2026-03-14", "10:00", "09:00", true},
		{"month out of range", "2026-13-01", "09:00", "10:00", true},
		{"day out of range", "2026-01-32", "09:00", "10:00", true},
		{"date not zero padded", "2026-3-14", "09:00", "10:00", true},
		{"hour out of range", "2026-03-14", "24:00", "25:00", true},
		{"minute out of range", "2026-03-14", "09:61", "10:00", true},
		{"clock not zero padded", "2026-03-14", "9:00", "10:00", true},
		{"empty date", "", "09:00", "10:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTimeInterval(tt.date, tt.from, tt.to)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewTimeInterval(%q, %q, %q) error = %v, wantErr %v",
					tt.date, tt.from, tt.to, err, tt.wantErr)
			}
		})
	}
}

func TestTimeInterval_ContainsStrict(t *testing.T) {
	iv := TimeInterval{Date: "2026-03-14", From: "09:00", To: "10:00"}

	tests := []struct {
		name string
		at   string
		want bool
	}{
		{"inside", "09:30", true},
		{"just after start", "09:01", true},
		{"just before end", "09:59", true},
		{"at start excluded", "09:00", false},
		{"at end excluded", "10:00", false},
		{"before", "08:59", false},
		{"after", "10:01", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := iv.ContainsStrict(tt.at); got != tt.want {
				t.Errorf("ContainsStrict(%q) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"admin", RoleAdmin},
		{"member", RoleMember},
		{"", RoleMember},
		{"superuser", RoleMember},
		{"Admin", RoleMember},
	}

	for _, tt := range tests {
		if got := ParseRole(tt.in); got != tt.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPrincipal_CanModify(t *testing.T) {
	booking := &Booking{CreatedBy: "user-1"}

	tests := []struct {
		name      string
		principal Principal
		want      bool
	}{
		{"creator", Principal{ID: "user-1", Role: RoleMember}, true},
		{"admin non-creator", Principal{ID: "user-2", Role: RoleAdmin}, true},
		{"member non-creator", Principal{ID: "user-2", Role: RoleMember}, false},
		{"anonymous", Principal{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.principal.CanModify(booking); got != tt.want {
				t.Errorf("CanModify() = %v, want %v", got, tt.want)
			}
		})
	}
}
