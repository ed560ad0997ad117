package core

import (
	"strconv"
	"strings"
)

// DayOrder is the display order of weekdays.
var DayOrder = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// dayNames maps both two-letter and single-letter day codes to weekday names.
var dayNames = map[string]string{
	"MO": "Monday",
	"TU": "Tuesday",
	"WE": "Wednesday",
	"TH": "Thursday",
	"FR": "Friday",
	"SA": "Saturday",
	"SU": "Sunday",
	"M":  "Monday",
	"W":  "Wednesday",
	"F":  "Friday",
}

// ParseTimeToMinutes converts a time string to minutes since midnight.
//
// Accepted forms are "9:30 AM", "2:30 PM", "14:30", "1430" and a bare hour
// such as "9". Anything it cannot read yields 0.
func ParseTimeToMinutes(s string) int {
	s = strings.ToUpper(strings.TrimSpace(s))

	isPM := strings.Contains(s, "PM")
	isAM := strings.Contains(s, "AM")
	s = strings.ReplaceAll(s, "AM", "")
	s = strings.ReplaceAll(s, "PM", "")
	s = strings.TrimSpace(s)

	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return 0
		}
		fields := strings.Fields(parts[1])
		if len(fields) == 0 {
			return 0
		}
		m, err := strconv.Atoi(fields[0])
		if err != nil {
			return 0
		}

		if isPM && h != 12 {
			h += 12
		} else if isAM && h == 12 {
			h = 0
		}
		return h*60 + m
	}

	if !isDigits(s) {
		return 0
	}
	if len(s) == 4 {
		h, _ := strconv.Atoi(s[:2])
		m, _ := strconv.Atoi(s[2:])
		return h*60 + m
	}
	h, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return h * 60
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseDaysToSet parses a day pattern into the set of day codes used for
// overlap tests. "TuTh" yields {TU, TH}; "MWF" and "MoWeFr" both yield {M, W, F}.
func ParseDaysToSet(days string) map[string]struct{} {
	result := make(map[string]struct{})
	days = strings.ToUpper(days)

	for _, code := range []string{"TU", "TH", "SA", "SU"} {
		if strings.Contains(days, code) {
			result[code] = struct{}{}
			days = strings.ReplaceAll(days, code, "")
		}
	}

	for _, r := range days {
		if strings.ContainsRune("MTWFS", r) {
			result[string(r)] = struct{}{}
		}
	}
	return result
}

// ParseDaysToCodes parses a day pattern into an ordered list of day codes.
//
//	"MWF"    -> [M W F]
//	"TuTh"   -> [TU TH]
//	"MoWeFr" -> [MO WE FR]
func ParseDaysToCodes(days string) []string {
	var result []string
	upper := strings.ToUpper(days)

	for _, code := range []string{"TU", "TH", "SA", "SU", "MO", "WE", "FR"} {
		if strings.Contains(upper, code) {
			result = append(result, code)
			upper = strings.Replace(upper, code, "", 1)
		}
	}

	has := func(code string) bool {
		for _, c := range result {
			if c == code {
				return true
			}
		}
		return false
	}
	for _, r := range upper {
		switch {
		case r == 'M' && !has("MO"):
			result = append(result, "M")
		case r == 'W' && !has("WE"):
			result = append(result, "W")
		case r == 'F' && !has("FR"):
			result = append(result, "F")
		}
	}
	return result
}

// ParseDaysToFullNames parses a day pattern into weekday names.
func ParseDaysToFullNames(days string) []string {
	codes := ParseDaysToCodes(days)
	names := make([]string, 0, len(codes))
	for _, code := range codes {
		if name, ok := dayNames[code]; ok {
			names = append(names, name)
		}
	}
	return names
}
