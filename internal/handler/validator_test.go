package handler

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/domain"
)

type TestStruct struct {
	Platform string `validate:"platform"`
	Target   string `validate:"platform_key"`
	Username string `validate:"required,max=100,excludesall=\x00\n\r\t"`
}

func TestValidator_PlatformValidation(t *testing.T) {
	InitValidator()
	v := GetValidator()

	tests := []struct {
		name     string
		platform string
		wantErr  bool
	}{
		{"valid twitch", domain.PlatformTwitch, false},
		{"valid discord", domain.PlatformDiscord, false},
		{"valid minecraft", domain.PlatformMinecraft, false},
		{"empty platform allowed", "", false},
		{"uppercase platform", "TWITCH", false},
		{"generic platform is not known", "youtube", true},
		{"typo", "twich", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(TestStruct{Platform: tt.platform, Username: "validuser"})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidator_PlatformKeyValidation(t *testing.T) {
	v := GetValidator()

	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"known platform", domain.PlatformSteam, false},
		{"generic platform", "youtube", false},
		{"with dash and digits", "osu-2", false},
		{"with space", "you tube", true},
		{"with dot", "a.b", true},
		{"too long", strings.Repeat("a", 33), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(TestStruct{Target: tt.key, Username: "validuser"})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidator_UsernameValidation(t *testing.T) {
	v := GetValidator()

	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"valid", "beekeeper", false},
		{"at max length", strings.Repeat("a", 100), false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 101), true},
		{"newline", "bee\nkeeper", true},
		{"null byte", "bee\x00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(TestStruct{Username: tt.username})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFormatValidationError(t *testing.T) {
	v := GetValidator()

	err := v.ValidateStruct(TestStruct{Platform: "nope", Username: ""})
	require.Error(t, err)

	fields := FormatValidationError(err)
	assert.Equal(t, "Invalid platform", fields["platform"])
	assert.Equal(t, "This field is required", fields["username"])

	assert.Nil(t, FormatValidationError(nil))
	assert.Equal(t, "Invalid request format", FormatValidationError(errors.New("x"))["error"])
}

func TestFormatValidationError_NestedFields(t *testing.T) {
	v := GetValidator()

	err := v.ValidateStruct(LinkRequest{
		Origin: LinkOrigin{Platform: domain.PlatformDiscord, Username: "bee", ID: "1"},
		Target: LinkTarget{Platform: "you tube", Username: ""},
	})
	require.Error(t, err)

	fields := FormatValidationError(err)
	assert.Equal(t, "Invalid platform", fields["target.platform"])
	assert.Equal(t, "This field is required", fields["target.username"])
}
