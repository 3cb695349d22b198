package catalog

// Service is a fixed-price recitation or prayer offering. Prices are held in
// all three currencies so the storefront never converts on the fly.
type Service struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	CountLabel string  `json:"countLabel"`
	PriceGBP   float64 `json:"priceGBP"`
	PricePKR   float64 `json:"pricePKR"`
	PriceUSD   float64 `json:"priceUSD"`
	Category   string  `json:"category"`
	Icon       string  `json:"icon"`
}

// CategoryAdditional marks the manual-amount offerings; the storefront asks
// for an amount instead of using the listed price.
const CategoryAdditional = "Additional Ziyārah & Special Services"

// CategoryOrder is the canonical display order. Categories not listed here
// sort after these.
var CategoryOrder = []string{
	"Tasbih & Duas",
	"Qur’an & Surah Recitation",
	"Qaza Namaz",
	"Qaza Roza",
	CategoryAdditional,
}

var services = []Service{
	{ID: "salawat", Name: "Salawat Tasbih", CountLabel: "100x", PriceGBP: 2, PricePKR: 600, PriceUSD: 3, Category: "Tasbih & Duas", Icon: "/icons/tasbih.png"},
	{ID: "istighfar", Name: "Istighfar Tasbih", CountLabel: "100x", PriceGBP: 2, PricePKR: 600, PriceUSD: 3, Category: "Tasbih & Duas", Icon: "/icons/tasbih.png"},
	{ID: "la-hawla-wa-la-quwwata", Name: "La Hawla wa La Quwwata Tasbih", CountLabel: "100x", PriceGBP: 2, PricePKR: 600, PriceUSD: 3, Category: "Tasbih & Duas", Icon: "/icons/tasbih.png"},
	{ID: "kalma-tawheed", Name: "Kalmah Tawheed Tasbih", CountLabel: "100x", PriceGBP: 2, PricePKR: 600, PriceUSD: 3, Category: "Tasbih & Duas", Icon: "/icons/tasbih.png"},
	{ID: "tasbih-zahra", Name: "Tasbih Zahra", CountLabel: "33+33+34", PriceGBP: 2, PricePKR: 600, PriceUSD: 3, Category: "Tasbih & Duas", Icon: "/icons/tasbih.png"},
	{ID: "nade-ali", Name: "Nade Ali", CountLabel: "100x", PriceGBP: 2, PricePKR: 600, PriceUSD: 3, Category: "Tasbih & Duas", Icon: "/icons/tasbih.png"},
	{ID: "ya-rahman", Name: "Ya Rahman", CountLabel: "100x", PriceGBP: 2, PricePKR: 600, PriceUSD: 3, Category: "Tasbih & Duas", Icon: "/icons/tasbih.png"},
	{ID: "ya-shafi", Name: "Ya Shafi", CountLabel: "100x", PriceGBP: 2, PricePKR: 600, PriceUSD: 3, Category: "Tasbih & Duas", Icon: "/icons/tasbih.png"},

	{ID: "quran-complete", Name: "Qur’an (Complete)", CountLabel: "1x", PriceGBP: 4, PricePKR: 1200, PriceUSD: 5, Category: "Qur’an & Surah Recitation", Icon: "/icons/quran.png"},
	{ID: "ayat-e-karima", Name: "Ayat-e-Karimah", CountLabel: "1x", PriceGBP: 2, PricePKR: 600, PriceUSD: 3, Category: "Qur’an & Surah Recitation", Icon: "/icons/ayat.png"},
	{ID: "ayat-ul-kursi", Name: "Ayat-ul-Kursi", CountLabel: "1x", PriceGBP: 2, PricePKR: 600, PriceUSD: 3, Category: "Qur’an & Surah Recitation", Icon: "/icons/ayat-ul-kursi.png"},
	{ID: "4-qul", Name: "4 Qul", CountLabel: "1x", PriceGBP: 2, PricePKR: 600, PriceUSD: 3, Category: "Qur’an & Surah Recitation", Icon: "/icons/4-qul.png"},
	{ID: "surah-fatiha", Name: "Surah Fatiha", CountLabel: "1x", PriceGBP: 2, PricePKR: 600, PriceUSD: 3, Category: "Qur’an & Surah Recitation", Icon: "/icons/soorah-fateha.png"},
	{ID: "surah-ikhlas", Name: "Surah Ikhlas", CountLabel: "1x", PriceGBP: 3, PricePKR: 900, PriceUSD: 4, Category: "Qur’an & Surah Recitation", Icon: "/icons/soorah-ikhlas.png"},
	{ID: "surah-mulk", Name: "Surah Mulk", CountLabel: "1x", PriceGBP: 3, PricePKR: 900, PriceUSD: 4, Category: "Qur’an & Surah Recitation", Icon: "/icons/soorah-mulk.png"},
	{ID: "surah-yaseen", Name: "Surah Yaseen", CountLabel: "1x", PriceGBP: 3, PricePKR: 900, PriceUSD: 4, Category: "Qur’an & Surah Recitation", Icon: "/icons/soorah-yaseen.png"},

	{ID: "qaza-namaz-1day", Name: "Qaza Namaz", CountLabel: "1 day", PriceGBP: 5, PricePKR: 1500, PriceUSD: 6, Category: "Qaza Namaz", Icon: "/icons/namaz.png"},
	{ID: "qaza-namaz-1year", Name: "Qaza Namaz", CountLabel: "1 year", PriceGBP: 5, PricePKR: 1500, PriceUSD: 6, Category: "Qaza Namaz", Icon: "/icons/namaz.png"},
	{ID: "qaza-namaz-5year", Name: "Qaza Namaz", CountLabel: "5 year", PriceGBP: 5, PricePKR: 1500, PriceUSD: 6, Category: "Qaza Namaz", Icon: "/icons/namaz.png"},
	{ID: "qaza-namaz-10year", Name: "Qaza Namaz", CountLabel: "10 year", PriceGBP: 5, PricePKR: 1500, PriceUSD: 6, Category: "Qaza Namaz", Icon: "/icons/namaz.png"},

	{ID: "qaza-roza-1day", Name: "Qaza Roza", CountLabel: "1 day", PriceGBP: 2, PricePKR: 700, PriceUSD: 3, Category: "Qaza Roza", Icon: "/icons/roza-1m.png"},
	{ID: "qaza-roza-1month", Name: "Qaza Roza", CountLabel: "1 month", PriceGBP: 45, PricePKR: 15000, PriceUSD: 60, Category: "Qaza Roza", Icon: "/icons/roza-1m.png"},
	{ID: "qaza-roza-1year", Name: "Qaza Roza", CountLabel: "1 year", PriceGBP: 400, PricePKR: 130000, PriceUSD: 550, Category: "Qaza Roza", Icon: "/icons/roza-1yrs.png"},

	{ID: "dua-e-kheir", Name: "Dua-e-Kheir", CountLabel: "Manual", PriceGBP: 2, PricePKR: 600, PriceUSD: 3, Category: CategoryAdditional, Icon: "/icons/dua.png"},
	{ID: "dua-e-kheir-karbala", Name: "Dua-e-Kheir (Karbala & Ziyārah)", CountLabel: "Manual", PriceGBP: 2, PricePKR: 600, PriceUSD: 3, Category: CategoryAdditional, Icon: "/icons/dua1.png"},
	{ID: "special-niaz", Name: "Special Niaz", CountLabel: "Manual", PriceGBP: 5, PricePKR: 1500, PriceUSD: 6, Category: CategoryAdditional, Icon: "/icons/niaz.png"},
	{ID: "khatam-special", Name: "Khatam / Special Recitation", CountLabel: "Manual", PriceGBP: 8, PricePKR: 2500, PriceUSD: 10, Category: CategoryAdditional, Icon: "/icons/quran.png"},
}

// All returns every catalogued service in declaration order.
func All() []Service {
	out := make([]Service, len(services))
	copy(out, services)
	return out
}

// ByID looks up a single service.
func ByID(id string) (Service, bool) {
	for _, s := range services {
		if s.ID == id {
			return s, true
		}
	}
	return Service{}, false
}

// Group pairs a category name with its services.
type Group struct {
	Category string    `json:"category"`
	Services []Service `json:"services"`
}

// Grouped returns the catalogue grouped by category in canonical order, with
// unknown categories appended after the known ones.
func Grouped() []Group {
	byCat := map[string][]Service{}
	var extras []string
	for _, s := range services {
		if _, seen := byCat[s.Category]; !seen && !knownCategory(s.Category) {
			extras = append(extras, s.Category)
		}
		byCat[s.Category] = append(byCat[s.Category], s)
	}

	var out []Group
	for _, cat := range CategoryOrder {
		if items := byCat[cat]; len(items) > 0 {
			out = append(out, Group{Category: cat, Services: items})
		}
	}
	for _, cat := range extras {
		out = append(out, Group{Category: cat, Services: byCat[cat]})
	}
	return out
}

func knownCategory(cat string) bool {
	for _, c := range CategoryOrder {
		if c == cat {
			return true
		}
	}
	return false
}
