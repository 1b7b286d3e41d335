package market

import "testing"

func TestOrderCrossesBuy(t *testing.T) {
	buy := Order{Dir: Buy, Price: 10}
	sell := Order{Dir: Sell, Price: 9}
	if !buy.Crosses(sell) {
		t.Fatalf("buy@10 should cross sell@9")
	}
	sell.Price = 11
	if buy.Crosses(sell) {
		t.Fatalf("buy@10 should not cross sell@11")
	}
}

func TestOrderCrossesSell(t *testing.T) {
	sell := Order{Dir: Sell, Price: 9}
	buy := Order{Dir: Buy, Price: 10}
	if !sell.Crosses(buy) {
		t.Fatalf("sell@9 should cross buy@10")
	}
	buy.Price = 8
	if sell.Crosses(buy) {
		t.Fatalf("sell@9 should not cross buy@8")
	}
}

func TestOrderCrossesEqualPrice(t *testing.T) {
	buy := Order{Dir: Buy, Price: 10}
	sell := Order{Dir: Sell, Price: 10}
	if !buy.Crosses(sell) || !sell.Crosses(buy) {
		t.Fatalf("orders at equal price should cross in both directions")
	}
}

func TestDirOther(t *testing.T) {
	if Buy.Other() != Sell {
		t.Fatalf("Buy.Other() should be Sell")
	}
	if Sell.Other() != Buy {
		t.Fatalf("Sell.Other() should be Buy")
	}
}

func TestDirPairGetSetModify(t *testing.T) {
	p := NewDirPair(1, 2)
	if p.Get(Buy) != 1 || p.Get(Sell) != 2 {
		t.Fatalf("unexpected DirPair contents: %+v", p)
	}
	p.Set(Buy, 10)
	if p.Get(Buy) != 10 {
		t.Fatalf("expected Set to update the buy side")
	}
	p.Modify(Sell, func(v int) int { return v + 5 })
	if p.Get(Sell) != 7 {
		t.Fatalf("expected Modify to add 5 to the sell side, got %d", p.Get(Sell))
	}
}

func TestSuitSameColorPartner(t *testing.T) {
	if Spades.SameColorPartner() != Clubs || Clubs.SameColorPartner() != Spades {
		t.Fatalf("Spades/Clubs should be same-color partners")
	}
	if Hearts.SameColorPartner() != Diamonds || Diamonds.SameColorPartner() != Hearts {
		t.Fatalf("Hearts/Diamonds should be same-color partners")
	}
}
