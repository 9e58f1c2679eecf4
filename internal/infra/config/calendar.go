package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"domehouse/internal/domain/calendar"
	"domehouse/internal/domain/pricing"
)

// CalendarConfig is the on-disk shape of the pricing and blocked-day
// configuration: nested year -> month mappings with string keys, validated
// into strongly typed domain structures at load time. Month keys are real
// calendar months (1-12); day keys must exist in their month.
//
//	{
//	  "costs": {
//	    "default_weekday": 30,
//	    "default_weekend": 50,
//	    "custom": {
//	      "2022": {"7": {"default_weekday": 70, "default_weekend": 170, "days": {"24": 100}}}
//	    }
//	  },
//	  "blocked": {"2022": {"3": [20, 21, 22]}}
//	}
type CalendarConfig struct {
	Costs   costsConfig                 `json:"costs"`
	Blocked map[string]map[string][]int `json:"blocked"`
}

type costsConfig struct {
	DefaultWeekday int64                                  `json:"default_weekday"`
	DefaultWeekend int64                                  `json:"default_weekend"`
	Custom         map[string]map[string]monthRatesConfig `json:"custom"`
}

type monthRatesConfig struct {
	DefaultWeekday *int64           `json:"default_weekday,omitempty"`
	DefaultWeekend *int64           `json:"default_weekend,omitempty"`
	Days           map[string]int64 `json:"days,omitempty"`
}

// LoadCalendarConfig reads, validates and converts the calendar file.
// Malformed year, month or day keys fail the load rather than surfacing as
// silent lookup misses at runtime.
func LoadCalendarConfig(path string) (pricing.Ratebook, calendar.BlockedSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pricing.Ratebook{}, nil, fmt.Errorf("read calendar config: %w", err)
	}
	var file CalendarConfig
	if err := json.Unmarshal(data, &file); err != nil {
		return pricing.Ratebook{}, nil, fmt.Errorf("decode calendar config: %w", err)
	}
	return file.Build()
}

// Build converts the raw file into domain structures.
func (c CalendarConfig) Build() (pricing.Ratebook, calendar.BlockedSet, error) {
	rates := pricing.Ratebook{
		DefaultWeekday: c.Costs.DefaultWeekday,
		DefaultWeekend: c.Costs.DefaultWeekend,
		Weekend:        calendar.DefaultWeekend,
		Custom:         make(map[calendar.MonthKey]pricing.MonthRates),
	}

	for yearKey, months := range c.Costs.Custom {
		for monthKey, raw := range months {
			key, err := parseMonthKey(yearKey, monthKey)
			if err != nil {
				return pricing.Ratebook{}, nil, fmt.Errorf("costs.custom: %w", err)
			}
			month := pricing.MonthRates{
				Weekday: raw.DefaultWeekday,
				Weekend: raw.DefaultWeekend,
			}
			if len(raw.Days) > 0 {
				month.Days = make(map[int]int64, len(raw.Days))
				for dayKey, price := range raw.Days {
					day, err := strconv.Atoi(dayKey)
					if err != nil {
						return pricing.Ratebook{}, nil, fmt.Errorf("costs.custom %s: bad day key %q", key, dayKey)
					}
					month.Days[day] = price
				}
			}
			rates.Custom[key] = month
		}
	}
	if err := rates.Validate(); err != nil {
		return pricing.Ratebook{}, nil, err
	}

	blocked := make(calendar.BlockedSet)
	for yearKey, months := range c.Blocked {
		for monthKey, days := range months {
			key, err := parseMonthKey(yearKey, monthKey)
			if err != nil {
				return pricing.Ratebook{}, nil, fmt.Errorf("blocked: %w", err)
			}
			for _, day := range days {
				if day < 1 || day > key.DaysIn() {
					return pricing.Ratebook{}, nil, fmt.Errorf("blocked: %s has no day %d", key, day)
				}
			}
			blocked[key] = calendar.NewDaySet(days...)
		}
	}
	return rates, blocked, nil
}

// DefaultCalendar is the stand-in used when no calendar file is present:
// flat 30/50 nightly rates and nothing blocked. A file that exists but fails
// validation never falls back here; serving with replaced rates would put
// blocked days back on the market.
func DefaultCalendar() (pricing.Ratebook, calendar.BlockedSet) {
	return pricing.Ratebook{
		DefaultWeekday: 30,
		DefaultWeekend: 50,
		Weekend:        calendar.DefaultWeekend,
	}, calendar.BlockedSet{}
}

func parseMonthKey(yearKey, monthKey string) (calendar.MonthKey, error) {
	year, err := strconv.Atoi(yearKey)
	if err != nil || year < 2000 || year > 2200 {
		return calendar.MonthKey{}, fmt.Errorf("bad year key %q", yearKey)
	}
	month, err := strconv.Atoi(monthKey)
	if err != nil || month < 1 || month > 12 {
		return calendar.MonthKey{}, fmt.Errorf("bad month key %q", monthKey)
	}
	return calendar.MonthKey{Year: year, Month: time.Month(month)}, nil
}
