// Copyright 2021 Silvio Böhler
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package date implements month-granularity calendar arithmetic. Dates are
// time.Time values at UTC midnight; a month value is its first day.
package date

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Interval is a time interval.
type Interval int

const (
	// Once represents a one-time occurrence.
	Once Interval = iota
	// Daily is a daily interval.
	Daily
	// Weekly is a weekly interval.
	Weekly
	// Monthly is a monthly interval.
	Monthly
	// Quarterly is a quarterly interval.
	Quarterly
	// Yearly is a yearly interval.
	Yearly
)

func (i Interval) String() string {
	switch i {
	case Once:
		return "once"
	case Daily:
		return "day"
	case Weekly:
		return "week"
	case Monthly:
		return "month"
	case Quarterly:
		return "quarter"
	case Yearly:
		return "year"
	}
	return ""
}

// ParseInterval parses a recurrence unit.
func ParseInterval(s string) (Interval, error) {
	switch s {
	case "day":
		return Daily, nil
	case "week":
		return Weekly, nil
	case "month":
		return Monthly, nil
	case "quarter":
		return Quarterly, nil
	case "year":
		return Yearly, nil
	}
	return Once, fmt.Errorf("invalid interval %q", s)
}

// Date creates a new date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Month returns the first day of the month containing the receiver.
func Month(d time.Time) time.Time {
	return Date(d.Year(), d.Month(), 1)
}

// NextMonth returns the first day of the month after the one containing d.
func NextMonth(d time.Time) time.Time {
	return Month(d).AddDate(0, 1, 0)
}

// Today returns today's date.
func Today() time.Time {
	now := time.Now().Local()
	return Date(now.Year(), now.Month(), now.Day())
}

// Add advances d by n intervals using calendar arithmetic. Days and weeks
// are plain day addition; months, quarters and years wrap across year
// boundaries, with leap years handled by the time package.
func Add(d time.Time, i Interval, n int) time.Time {
	switch i {
	case Once:
		return d
	case Daily:
		return d.AddDate(0, 0, n)
	case Weekly:
		return d.AddDate(0, 0, 7*n)
	case Monthly:
		return d.AddDate(0, n, 0)
	case Quarterly:
		return d.AddDate(0, 3*n, 0)
	case Yearly:
		return d.AddDate(n, 0, 0)
	}
	return d
}

// ParseMonth parses a month of the form "yy/mm" or "yyyy/mm", with "-" and
// "." accepted as separators. Two-digit years are interpreted as 20yy.
func ParseMonth(s string) (time.Time, error) {
	norm := strings.NewReplacer("-", "/", ".", "/").Replace(s)
	parts := strings.Split(norm, "/")
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("invalid month %q", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q", s)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q", s)
	}
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("invalid month %q: month %d out of range", s, month)
	}
	if year < 1900 {
		year += 2000
	}
	if year > 2200 {
		return time.Time{}, fmt.Errorf("invalid month %q: year %d out of range", s, year)
	}
	return Date(year, time.Month(month), 1), nil
}

// FormatMonth is the inverse of ParseMonth.
func FormatMonth(d time.Time) string {
	return d.Format("06/01")
}
