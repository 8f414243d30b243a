package cooldown_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/cooldown"
)

func TestErrOnCooldown_Error(t *testing.T) {
	tests := []struct {
		name string
		err  cooldown.ErrOnCooldown
		want string
	}{
		{
			name: "minutes and seconds",
			err:  cooldown.ErrOnCooldown{Action: cooldown.ActionLink, Remaining: 2*time.Minute + 30*time.Second},
			want: fmt.Sprintf(cooldown.ErrFmtCooldownWithMinutes, cooldown.ActionLink, 2, 30),
		},
		{
			name: "seconds only",
			err:  cooldown.ErrOnCooldown{Action: cooldown.ActionBeeName, Remaining: 4 * time.Second},
			want: fmt.Sprintf(cooldown.ErrFmtCooldownSecondsOnly, cooldown.ActionBeeName, 4),
		},
		{
			name: "nothing left",
			err:  cooldown.ErrOnCooldown{Action: cooldown.ActionSuggestion},
			want: fmt.Sprintf(cooldown.ErrFmtCooldownSecondsOnly, cooldown.ActionSuggestion, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrOnCooldown_Is(t *testing.T) {
	wrapped := fmt.Errorf("bee name command: %w", cooldown.ErrOnCooldown{Action: cooldown.ActionBeeName, Remaining: time.Second})

	assert.ErrorIs(t, wrapped, cooldown.ErrOnCooldown{})
	assert.False(t, errors.Is(errors.New("other error"), cooldown.ErrOnCooldown{}))

	var cdErr cooldown.ErrOnCooldown
	assert.ErrorAs(t, wrapped, &cdErr)
	assert.Equal(t, cooldown.ActionBeeName, cdErr.Action)
}

func TestConfig_GetCooldownDuration(t *testing.T) {
	cfg := cooldown.Config{
		Default:   3 * time.Second,
		Cooldowns: map[string]time.Duration{cooldown.ActionLink: time.Minute},
	}
	assert.Equal(t, time.Minute, cfg.GetCooldownDuration(cooldown.ActionLink))
	assert.Equal(t, 3*time.Second, cfg.GetCooldownDuration(cooldown.ActionBeeName))

	var empty cooldown.Config
	assert.Equal(t, cooldown.DefaultCooldownDuration, empty.GetCooldownDuration(cooldown.ActionBeeName))
}
