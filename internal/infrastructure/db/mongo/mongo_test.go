package mongo

import (
	"testing"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
)

func TestDecimalCodec_RoundTrip(t *testing.T) {
	reg := newRegistry()
	in := accountDoc{ID: "a1", Balance: decimal.RequireFromString("100.30")}

	raw, err := bson.MarshalWithRegistry(reg, in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got := bson.Raw(raw).Lookup("balance").Type; got != bson.TypeDecimal128 {
		t.Fatalf("balance stored as %v, want decimal128", got)
	}

	var out accountDoc
	if err := bson.UnmarshalWithRegistry(reg, raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !out.Balance.Equal(in.Balance) {
		t.Fatalf("balance = %s, want %s", out.Balance, in.Balance)
	}
}

func TestListPipeline_MatchesAccountsFirst(t *testing.T) {
	cases := map[string][]string{
		"single account": {"acc-1"},
		"all accounts":   {"acc-1", "acc-2", "acc-3"},
	}
	for name, ids := range cases {
		p := listPipeline("u1", ids)
		if len(p) != 5 {
			t.Fatalf("%s: expected 5 stages, got %d", name, len(p))
		}
		if p[0][0].Key != "$match" {
			t.Fatalf("%s: first stage = %s, want $match", name, p[0][0].Key)
		}
		filter, ok := p[0][0].Value.(bson.D)
		if !ok || len(filter) != 1 || filter[0].Key != "account_id" {
			t.Fatalf("%s: unexpected leading filter %v", name, p[0][0].Value)
		}
		in, ok := filter[0].Value.(bson.D)
		if !ok || in[0].Key != "$in" {
			t.Fatalf("%s: expected $in on account_id, got %v", name, filter[0].Value)
		}
		if got, _ := in[0].Value.([]string); len(got) != len(ids) {
			t.Fatalf("%s: $in = %v, want %v", name, in[0].Value, ids)
		}
		if p[1][0].Key != "$lookup" {
			t.Fatalf("%s: second stage = %s", name, p[1][0].Key)
		}
		owner, _ := p[3][0].Value.(bson.D)
		if p[3][0].Key != "$match" || len(owner) != 1 || owner[0].Key != "account.user_id" || owner[0].Value != "u1" {
			t.Fatalf("%s: ownership guard missing: %v", name, p[3])
		}
		if p[len(p)-1][0].Key != "$sort" {
			t.Fatalf("%s: last stage = %s", name, p[len(p)-1][0].Key)
		}
	}
}

func TestStringIDs_SkipsNonStrings(t *testing.T) {
	got := stringIDs([]interface{}{"a1", int32(7), "a2", nil})
	if len(got) != 2 || got[0] != "a1" || got[1] != "a2" {
		t.Fatalf("ids = %v", got)
	}
	if got := stringIDs(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}
