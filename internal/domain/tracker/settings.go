package tracker

// Settings tunes idle detection and session splitting. All values are seconds
// except SplitGapFactor.
type Settings struct {
	IdleTimeoutSeconds        int64 `yaml:"idle_timeout_seconds"`
	DiscardShortEntries       bool  `yaml:"discard_sub_10s_entries"`
	MaxGapIdleSeconds         int64 `yaml:"max_gap_idle_seconds"`
	SplitGapFactor            int64 `yaml:"split_gap_factor"`
	PollGapSleepMin           int64 `yaml:"poll_gap_sleep_min"`
	RestoreActiveDelaySeconds int64 `yaml:"restore_active_delay_seconds"`
	DailyCapSeconds           int64 `yaml:"daily_cap_seconds"`
}

const (
	// shortEntrySeconds is the duration below which sessions may be discarded.
	shortEntrySeconds = 10
	// sleepMarginSeconds is added to the idle threshold when classifying a gap as sleep.
	sleepMarginSeconds = 5
)

// DefaultSettings returns the stock tuning.
func DefaultSettings() Settings {
	return Settings{
		IdleTimeoutSeconds:        300,
		DiscardShortEntries:       true,
		MaxGapIdleSeconds:         21600,
		SplitGapFactor:            3,
		PollGapSleepMin:           30,
		RestoreActiveDelaySeconds: 15,
		DailyCapSeconds:           86400,
	}
}

// Validate checks that every threshold is usable.
func (s Settings) Validate() error {
	switch {
	case s.IdleTimeoutSeconds <= 0:
		return ErrInvalidSettings
	case s.MaxGapIdleSeconds < 0:
		return ErrInvalidSettings
	case s.SplitGapFactor <= 0:
		return ErrInvalidSettings
	case s.PollGapSleepMin <= 0:
		return ErrInvalidSettings
	case s.RestoreActiveDelaySeconds < 0:
		return ErrInvalidSettings
	case s.DailyCapSeconds <= 0:
		return ErrInvalidSettings
	}
	return nil
}
