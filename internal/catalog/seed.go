package catalog

// SeedVenues returns the catalog used to bootstrap an empty store
func SeedVenues() []Venue {
	out := make([]Venue, len(seedVenues))
	for i, v := range seedVenues {
		v.Tags = append([]string(nil), v.Tags...)
		out[i] = v
	}
	return out
}

// SeedDistricts returns the district list used to bootstrap an empty store
func SeedDistricts() []string {
	return append([]string(nil), seedDistricts...)
}

var seedDistricts = []string{
	"Tunalı",
	"Kızılay",
	"Bahçeli",
	"Beşevler",
	"Kentpark-Cepa",
	"Söğütözü",
	"Beştepe",
	"Koru",
	"Emek",
}

func food(id, name, district string, tags ...string) Venue {
	return Venue{ID: id, Name: name, District: district, Category: CategoryFood, Tags: tags}
}

func dessert(id, name, district string, tags ...string) Venue {
	return Venue{ID: id, Name: name, District: district, Category: CategoryDessertCoffee, Tags: tags}
}

var seedVenues = []Venue{
	dessert("tunali-bosco", "Bosco", "Tunalı", "Tatlı"),
	dessert("tunali-bilardo", "Bilardo", "Tunalı", "Kafe"),
	dessert("tunali-if", "IF Sokak", "Tunalı", "Kafe", "Bar"),
	dessert("tunali-mojo", "Mojo", "Tunalı", "Tatlı", "Kafe"),

	food("kizilay-kajun", "Kajun", "Kızılay", "Restoran", "Tavuk"),
	dessert("kizilay-saracoglu", "Saraçoğlu", "Kızılay", "Kafe"),
	food("kizilay-mcdonalds", "McDonalds", "Kızılay", "Restoran"),
	dessert("kizilay-neofoods", "NeoFoods", "Kızılay", "Tatlı"),
	dessert("kizilay-verte", "Verte", "Kızılay", "Kafe"),
	dessert("kizilay-kocatepe", "Kocatepe", "Kızılay", "Kafe"),
	dessert("kizilay-bilardo", "Bilardo", "Kızılay", "Kafe"),
	dessert("kizilay-mackbear", "Mackbear", "Kızılay", "Kafe"),

	food("bahceli-bigos", "Bigos", "Bahçeli", "Restoran", "Tavuk"),
	food("bahceli-mcdonalds", "McDonalds", "Bahçeli", "Restoran"),
	food("bahceli-italiancut", "ItalianCut", "Bahçeli", "Pizza"),
	food("bahceli-hippo", "Hippo", "Bahçeli", "Taco"),
	dessert("bahceli-boston", "Boston", "Bahçeli", "Tatlı"),
	dessert("bahceli-uyanik", "Uyanık Kütüphane", "Bahçeli", "Ders", "Kafe"),

	food("besevler-barley", "Barley Mash", "Beşevler", "Restoran"),
	dessert("besevler-coffy", "Coffy", "Beşevler", "Kafe"),
	dessert("besevler-starbucks", "Starbucks", "Beşevler", "Kafe"),
	food("besevler-kajun", "Kajun", "Beşevler", "Restoran"),

	food("kentpark-bigchefs", "Big Chefs", "Kentpark-Cepa", "Restoran"),
	food("kentpark-happymoons", "Happy Moons", "Kentpark-Cepa", "Restoran"),
	food("kentpark-mcdonalds", "McDonalds", "Kentpark-Cepa", "Restoran"),
	food("kentpark-iskender", "İskender", "Kentpark-Cepa", "Restoran"),
	dessert("kentpark-kahvedunyasi", "Kahve Dünyası", "Kentpark-Cepa", "Kafe"),
	food("kentpark-100burger", "100 Burger", "Kentpark-Cepa", "Restoran"),

	food("sogutozu-mcdonalds", "McDonalds", "Söğütözü", "Restoran"),
	dessert("sogutozu-arabica", "Arabica", "Söğütözü", "Kafe"),
	dessert("sogutozu-starbucks", "Starbucks", "Söğütözü", "Kafe"),
	food("sogutozu-nextlevel", "Next Level", "Söğütözü", "AVM"),
	food("sogutozu-beatup", "Beat Up", "Söğütözü", "Restoran"),

	dessert("bestep-mackbear", "Mackbear", "Beştepe", "Ders", "Kafe"),
	dessert("bestep-kocatepe", "Kocatepe", "Beştepe", "Ders", "Kafe"),

	food("koru-ochi", "Ochi", "Koru", "Restoran"),
	food("koru-if", "IF Sokak", "Koru", "Restoran"),
	dessert("koru-arabica", "Arabica", "Koru", "Kafe"),
	dessert("koru-arcadium", "Arcadium", "Koru", "AVM"),
	dessert("koru-gordion", "Gordion", "Koru", "AVM"),

	food("emek-park", "Park", "Emek", "Açık Alan"),
	dessert("emek-uyanik", "Uyanık Kütüphane", "Emek", "Ders", "Kafe"),
}
