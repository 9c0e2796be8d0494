package cities

import "github.com/i474232898/gsm-forecast/internal/weather"

// Entry maps a city name to its coordinate.
type Entry struct {
	Name      string  `yaml:"name" validate:"required"`
	Latitude  float64 `yaml:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `yaml:"longitude" validate:"gte=-180,lte=180"`
}

// Coordinate returns the entry's position.
func (e Entry) Coordinate() weather.Coordinate {
	return weather.Coordinate{Latitude: e.Latitude, Longitude: e.Longitude}
}

// Table is an ordered list of entries. Order is significant: search results
// and listings follow it.
type Table []Entry

// Builtin returns a fresh copy of the built-in table. Japanese names come
// first, followed by romanised names for the larger cities.
func Builtin() Table {
	out := make(Table, len(builtin))
	copy(out, builtin)
	return out
}

var builtin = Table{
	// Prefectural capitals.
	{"札幌", 43.0642, 141.3469},
	{"青森", 40.8244, 140.7400},
	{"盛岡", 39.7036, 141.1527},
	{"仙台", 38.2682, 140.8694},
	{"秋田", 39.7186, 140.1024},
	{"山形", 38.2404, 140.3633},
	{"福島", 37.7500, 140.4678},
	{"水戸", 36.3418, 140.4468},
	{"宇都宮", 36.5657, 139.8836},
	{"前橋", 36.3911, 139.0608},
	{"さいたま", 35.8617, 139.6455},
	{"千葉", 35.6074, 140.1065},
	{"東京", 35.6762, 139.6503},
	{"横浜", 35.4437, 139.6380},
	{"新潟", 37.9161, 139.0364},
	{"富山", 36.6953, 137.2113},
	{"金沢", 36.5613, 136.6562},
	{"福井", 36.0652, 136.2216},
	{"甲府", 35.6642, 138.5684},
	{"長野", 36.6513, 138.1810},
	{"岐阜", 35.4233, 136.7607},
	{"静岡", 34.9756, 138.3828},
	{"名古屋", 35.1815, 136.9066},
	{"津", 34.7303, 136.5086},
	{"大津", 35.0045, 135.8686},
	{"京都", 35.0116, 135.7681},
	{"大阪", 34.6937, 135.5023},
	{"神戸", 34.6901, 135.1955},
	{"奈良", 34.6851, 135.8048},
	{"和歌山", 34.2260, 135.1675},
	{"鳥取", 35.5011, 134.2351},
	{"松江", 35.4723, 133.0505},
	{"岡山", 34.6551, 133.9195},
	{"広島", 34.3853, 132.4553},
	{"山口", 34.1785, 131.4737},
	{"徳島", 34.0657, 134.5593},
	{"高松", 34.3401, 134.0434},
	{"松山", 33.8392, 132.7657},
	{"高知", 33.5597, 133.5311},
	{"福岡", 33.5904, 130.4017},
	{"佐賀", 33.2494, 130.2988},
	{"長崎", 32.7503, 129.8779},
	{"熊本", 32.8032, 130.7079},
	{"大分", 33.2382, 131.6126},
	{"宮崎", 31.9111, 131.4239},
	{"鹿児島", 31.5966, 130.5571},
	{"那覇", 26.2124, 127.6809},

	// Other major cities.
	{"川崎", 35.5308, 139.7029},
	{"相模原", 35.5710, 139.3734},
	{"浜松", 34.7108, 137.7261},
	{"堺", 34.5733, 135.4830},
	{"北九州", 33.8834, 130.8752},
	{"旭川", 43.7706, 142.3650},
	{"函館", 41.7687, 140.7288},
	{"釧路", 42.9849, 144.3820},
	{"姫路", 34.8151, 134.6853},
	{"倉敷", 34.5850, 133.7720},

	// Sightseeing spots.
	{"日光", 36.7199, 139.6982},
	{"箱根", 35.2324, 139.1069},
	{"鎌倉", 35.3192, 139.5467},
	{"軽井沢", 36.3486, 138.5970},
	{"富士山", 35.3606, 138.7274},
	{"高山", 36.1461, 137.2522},
	{"白川郷", 36.2578, 136.9061},
	{"伊勢", 34.4873, 136.7092},
	{"石垣", 24.3448, 124.1572},

	// Romanised names.
	{"Sapporo", 43.0642, 141.3469},
	{"Sendai", 38.2682, 140.8694},
	{"Tokyo", 35.6762, 139.6503},
	{"Yokohama", 35.4437, 139.6380},
	{"Kawasaki", 35.5308, 139.7029},
	{"Niigata", 37.9161, 139.0364},
	{"Kanazawa", 36.5613, 136.6562},
	{"Shizuoka", 34.9756, 138.3828},
	{"Nagoya", 35.1815, 136.9066},
	{"Kyoto", 35.0116, 135.7681},
	{"Osaka", 34.6937, 135.5023},
	{"Kobe", 34.6901, 135.1955},
	{"Nara", 34.6851, 135.8048},
	{"Hiroshima", 34.3853, 132.4553},
	{"Okayama", 34.6551, 133.9195},
	{"Fukuoka", 33.5904, 130.4017},
	{"Kitakyushu", 33.8834, 130.8752},
	{"Nagasaki", 32.7503, 129.8779},
	{"Kumamoto", 32.8032, 130.7079},
	{"Kagoshima", 31.5966, 130.5571},
	{"Naha", 26.2124, 127.6809},
	{"Hakodate", 41.7687, 140.7288},
	{"Nikko", 36.7199, 139.6982},
	{"Hakone", 35.2324, 139.1069},
}
