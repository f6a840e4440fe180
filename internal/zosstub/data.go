package zosstub

type (
	// Contact is one phonebook entry
	Contact struct {
		LastName  string
		FirstName string
		Extension string
		ZipCode   string
	}

	// Place is the postal code detail served for one US zip code
	Place struct {
		City      string
		State     string
		StateCode string
		Latitude  string
		Longitude string
	}

	// Item is one catalog entry. Cost keeps the catalog's zero-padded form
	Item struct {
		Ref         string
		Description string
		Cost        string
		Department  int
		Stock       int
		OnOrder     int
	}
)

func seedContacts() map[string]Contact {
	return map[string]Contact{
		"LAST1": {"LAST1", "FIRST1", "8-111-1111", "10001"},
		"LAST2": {"LAST2", "FIRST2", "8-222-2222", "95141"},
		"LAST3": {"LAST3", "FIRST3", "8-333-3333", "12601"},
		"SMITH": {"SMITH", "JOHN", "8-444-4444", "60601"},
	}
}

func seedPlaces() map[string]Place {
	return map[string]Place{
		"10001": {"New York City", "New York", "NY", "40.7484", "-73.9967"},
		"95141": {"San Jose", "California", "CA", "37.1899", "-121.7055"},
		"12601": {"Poughkeepsie", "New York", "NY", "41.7065", "-73.9284"},
		"60601": {"Chicago", "Illinois", "IL", "41.8858", "-87.6181"},
	}
}

func seedItems() map[string]*Item {
	items := []*Item{
		{"0010", "Ball Pens Black 24pk", "002.90", 10, 135, 0},
		{"0020", "Ball Pens Blue 24pk", "002.90", 10, 6, 50},
		{"0030", "Ball Pens Red 24pk", "002.90", 10, 106, 0},
		{"0040", "Ball Pens Green 24pk", "002.90", 10, 80, 20},
		{"0050", "Pencil with eraser 12pk", "001.78", 10, 83, 0},
		{"0060", "Highlighters Assorted 5pk", "003.89", 10, 13, 40},
		{"0070", "Laser Paper 28-lb 108 Bright 500/ream", "007.44", 20, 102, 20},
		{"0080", "Laser Paper 28-lb 108 Bright 2500/case", "033.54", 20, 25, 0},
		{"0090", "Blue Laser Paper 20lb 500/ream", "005.35", 20, 22, 0},
		{"0100", "Green Laser Paper 20lb 500/ream", "007.35", 20, 3, 20},
		{"0110", "IBM Network Printer 24 - Toner cart", "169.56", 20, 12, 0},
		{"0120", "Standard Diary: Week to view 8 1/4x5 3/4", "025.99", 30, 7, 0},
	}
	res := make(map[string]*Item, len(items))
	for _, it := range items {
		res[it.Ref] = it
	}
	return res
}
