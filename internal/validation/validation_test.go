package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "secret1", false},
		{"exactly six", "abc123", false},
		{"too short", "abc12", true},
		{"empty", "", true},
		{"contains password", "mypassword1", true},
		{"contains password uppercase", "MyPASSWORD1", true},
		{"contains password mixed", "xPaSsWoRdx", true},
		{"over bcrypt limit", strings.Repeat("a", 73), true},
		{"at bcrypt limit", strings.Repeat("a", 72), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid", "bob@x.com", false},
		{"valid with plus", "bob+tag@example.org", false},
		{"empty", "", true},
		{"no at", "bobx.com", true},
		{"no domain", "bob@", true},
		{"too long", strings.Repeat("a", 250) + "@x.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("Bob"))
	assert.Error(t, ValidateName(""))
	assert.Error(t, ValidateName("   "))
	assert.Error(t, ValidateName(strings.Repeat("b", 101)))
}

func TestValidateImageFileType(t *testing.T) {
	assert.NoError(t, ValidateImageFileType("jpg"))
	assert.NoError(t, ValidateImageFileType("png"))
	assert.Error(t, ValidateImageFileType(""))
	assert.Error(t, ValidateImageFileType("exe"))
}
