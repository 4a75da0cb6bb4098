package commerce

import "testing"

const seller = "29"

func TestResolveStateCodePriority(t *testing.T) {
	shipping := Address{Type: AddressTypeShipping, StateCode: "33"}
	billing := Address{Type: AddressTypeBilling, StateCode: "27"}
	defaultBilling := Address{Type: AddressTypeBilling, StateCode: "07", IsDefault: true}
	defaultShipping := Address{Type: AddressTypeShipping, StateCode: "24", IsDefault: true}

	cases := []struct {
		name      string
		addresses []Address
		want      string
	}{
		{"default billing wins", []Address{shipping, billing, defaultBilling}, "07"},
		{"billing over others", []Address{defaultShipping, shipping, billing}, "27"},
		{"first address fallback", []Address{shipping, defaultShipping}, "33"},
		{"no addresses means seller state", nil, seller},
	}

	for _, tc := range cases {
		if got := ResolveStateCode(tc.addresses, seller); got != tc.want {
			t.Fatalf("%s: want %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestResolveStateCodeFallsBackToStateName(t *testing.T) {
	addrs := []Address{{Type: AddressTypeBilling, State: "Maharashtra"}}
	if got := ResolveStateCode(addrs, seller); got != "Maharashtra" {
		t.Fatalf("want state name fallback, got %s", got)
	}

	addrs = []Address{{Type: AddressTypeBilling}}
	if got := ResolveStateCode(addrs, seller); got != seller {
		t.Fatalf("blank address should resolve seller state, got %s", got)
	}
}
