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

package flags

import (
	"time"

	"github.com/spf13/pflag"

	"github.com/sboehler/foresight/lib/common/date"
)

// MonthFlag manages a flag holding a month.
type MonthFlag time.Time

var _ pflag.Value = (*MonthFlag)(nil)

func (mf MonthFlag) String() string {
	if time.Time(mf).IsZero() {
		return ""
	}
	return date.FormatMonth(time.Time(mf))
}

// Set implements pflag.Value.
func (mf *MonthFlag) Set(v string) error {
	t, err := date.ParseMonth(v)
	if err != nil {
		return err
	}
	*mf = MonthFlag(t)
	return nil
}

// Type implements pflag.Value.
func (mf MonthFlag) Type() string {
	return "YY/MM"
}

// Value returns the flag value.
func (mf MonthFlag) Value() time.Time {
	return time.Time(mf)
}

// ValueOr returns the flag value, or the given default if unset.
func (mf MonthFlag) ValueOr(t time.Time) time.Time {
	v := mf.Value()
	if v.IsZero() {
		return t
	}
	return v
}
