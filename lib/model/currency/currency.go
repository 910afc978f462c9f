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

package currency

import (
	"fmt"
	"sync"
)

// Currency describes a currency: its ISO code, display symbol and the
// number of decimal digits amounts are rounded to.
type Currency struct {
	code   string
	symbol string
	digits int32
}

// Code returns the ISO code.
func (c *Currency) Code() string {
	return c.code
}

// Symbol returns the display symbol.
func (c *Currency) Symbol() string {
	return c.symbol
}

// Digits returns the number of decimal digits.
func (c *Currency) Digits() int32 {
	return c.digits
}

func (c *Currency) String() string {
	return c.code
}

// Registry is a thread-safe collection of currencies.
type Registry struct {
	index map[string]*Currency
	mutex sync.RWMutex
}

// NewRegistry creates a registry seeded with the known currencies.
func NewRegistry() *Registry {
	reg := &Registry{
		index: make(map[string]*Currency),
	}
	for _, c := range []struct {
		code, symbol string
		digits       int32
	}{
		{"USD", "$", 2},
		{"EUR", "€", 2},
		{"GBP", "£", 2},
		{"CHF", "CHF", 2},
		{"JPY", "¥", 0},
		{"CAD", "$", 2},
		{"AUD", "$", 2},
		{"CNY", "¥", 2},
		{"INR", "₹", 2},
		{"KRW", "₩", 0},
	} {
		reg.index[c.code] = &Currency{code: c.code, symbol: c.symbol, digits: c.digits}
	}
	return reg
}

// Get returns the currency with the given code.
func (reg *Registry) Get(code string) (*Currency, error) {
	reg.mutex.RLock()
	defer reg.mutex.RUnlock()
	res, ok := reg.index[code]
	if !ok {
		return nil, fmt.Errorf("unknown currency %q", code)
	}
	return res, nil
}

// Register adds a currency. It is an error to redefine an existing code.
func (reg *Registry) Register(code, symbol string, digits int32) (*Currency, error) {
	if len(code) == 0 {
		return nil, fmt.Errorf("invalid currency code %q", code)
	}
	reg.mutex.Lock()
	defer reg.mutex.Unlock()
	if _, ok := reg.index[code]; ok {
		return nil, fmt.Errorf("currency %q is already registered", code)
	}
	res := &Currency{code: code, symbol: symbol, digits: digits}
	reg.index[code] = res
	return res, nil
}

var defaultRegistry = NewRegistry()

// Default returns a currency from the default registry, or panics. It is
// a convenience for tests and built-in scenarios.
func Default(code string) *Currency {
	c, err := defaultRegistry.Get(code)
	if err != nil {
		panic(err)
	}
	return c
}
