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
	"sync"
	"testing"
)

func TestGetSeeded(t *testing.T) {
	reg := NewRegistry()
	usd, err := reg.Get("USD")
	if err != nil {
		t.Fatalf("Get(USD) returned error %v", err)
	}
	if usd.Digits() != 2 || usd.Symbol() != "$" {
		t.Errorf("unexpected USD: digits %d, symbol %s", usd.Digits(), usd.Symbol())
	}
	jpy, err := reg.Get("JPY")
	if err != nil {
		t.Fatalf("Get(JPY) returned error %v", err)
	}
	if jpy.Digits() != 0 {
		t.Errorf("JPY digits = %d, want 0", jpy.Digits())
	}
}

func TestGetUnknown(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Get("XXX"); err == nil {
		t.Error("Get(XXX) did not return an error")
	}
}

func TestRegister(t *testing.T) {
	reg := NewRegistry()
	btc, err := reg.Register("BTC", "₿", 8)
	if err != nil {
		t.Fatalf("Register(BTC) returned error %v", err)
	}
	got, err := reg.Get("BTC")
	if err != nil {
		t.Fatalf("Get(BTC) returned error %v", err)
	}
	if got != btc {
		t.Error("Get(BTC) did not return the registered currency")
	}
	if _, err := reg.Register("BTC", "₿", 8); err == nil {
		t.Error("redefining BTC did not return an error")
	}
	if _, err := reg.Register("", "?", 2); err == nil {
		t.Error("registering an empty code did not return an error")
	}
}

func TestConcurrentAccess(t *testing.T) {
	reg := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := reg.Get("USD"); err != nil {
				t.Error(err)
			}
		}()
		go func() {
			defer wg.Done()
			reg.Get("EUR")
		}()
	}
	wg.Wait()
}
