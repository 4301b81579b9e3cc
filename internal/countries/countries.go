// Package countries holds the static country reference list served to
// clients for location pickers.
package countries

import (
	"sort"
	"strings"
)

// Country is one entry of the reference list.
type Country struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	States      []string `json:"states"`
	MajorCities []string `json:"majorCities"`
}

var catalog = []Country{
	{
		Code: "US",
		Name: "United States",
		States: []string{
			"Alabama", "Alaska", "Arizona", "Arkansas", "California", "Colorado", "Connecticut",
			"Delaware", "Florida", "Georgia", "Hawaii", "Idaho", "Illinois", "Indiana", "Iowa",
			"Kansas", "Kentucky", "Louisiana", "Maine", "Maryland", "Massachusetts", "Michigan",
			"Minnesota", "Mississippi", "Missouri", "Montana", "Nebraska", "Nevada", "New Hampshire",
			"New Jersey", "New Mexico", "New York", "North Carolina", "North Dakota", "Ohio",
			"Oklahoma", "Oregon", "Pennsylvania", "Rhode Island", "South Carolina", "South Dakota",
			"Tennessee", "Texas", "Utah", "Vermont", "Virginia", "Washington", "West Virginia",
			"Wisconsin", "Wyoming",
		},
		MajorCities: []string{
			"New York", "Los Angeles", "Chicago", "Houston", "Phoenix", "Philadelphia", "San Antonio",
			"San Diego", "Dallas", "San Jose", "Austin", "Jacksonville", "Fort Worth", "Columbus",
			"San Francisco", "Charlotte", "Indianapolis", "Seattle", "Denver", "Boston",
		},
	},
	{
		Code: "CA",
		Name: "Canada",
		States: []string{
			"Alberta", "British Columbia", "Manitoba", "New Brunswick", "Newfoundland and Labrador",
			"Northwest Territories", "Nova Scotia", "Nunavut", "Ontario", "Prince Edward Island",
			"Quebec", "Saskatchewan", "Yukon",
		},
		MajorCities: []string{
			"Toronto", "Montreal", "Vancouver", "Calgary", "Edmonton", "Ottawa", "Winnipeg",
			"Quebec City", "Hamilton", "Kitchener",
		},
	},
	{
		Code:   "GB",
		Name:   "United Kingdom",
		States: []string{"England", "Scotland", "Wales", "Northern Ireland"},
		MajorCities: []string{
			"London", "Manchester", "Birmingham", "Glasgow", "Liverpool", "Edinburgh", "Bristol",
			"Cardiff", "Belfast", "Leicester",
		},
	},
	{
		Code: "AU",
		Name: "Australia",
		States: []string{
			"Australian Capital Territory", "New South Wales", "Northern Territory", "Queensland",
			"South Australia", "Tasmania", "Victoria", "Western Australia",
		},
		MajorCities: []string{
			"Sydney", "Melbourne", "Brisbane", "Perth", "Adelaide", "Gold Coast", "Newcastle",
			"Canberra", "Wollongong", "Hobart",
		},
	},
	{
		Code: "IN",
		Name: "India",
		States: []string{
			"Andhra Pradesh", "Arunachal Pradesh", "Assam", "Bihar", "Chhattisgarh", "Goa",
			"Gujarat", "Haryana", "Himachal Pradesh", "Jharkhand", "Karnataka", "Kerala",
			"Madhya Pradesh", "Maharashtra", "Manipur", "Meghalaya", "Mizoram", "Nagaland",
			"Odisha", "Punjab", "Rajasthan", "Sikkim", "Tamil Nadu", "Telangana", "Tripura",
			"Uttar Pradesh", "Uttarakhand", "West Bengal",
		},
		MajorCities: []string{
			"Mumbai", "Delhi", "Bangalore", "Hyderabad", "Chennai", "Kolkata", "Pune",
			"Ahmedabad", "Jaipur", "Lucknow",
		},
	},
	{
		Code: "FR",
		Name: "France",
		States: []string{
			"Île-de-France", "Auvergne-Rhône-Alpes", "Hauts-de-France", "Provence-Alpes-Côte d'Azur",
			"Occitanie", "Nouvelle-Aquitaine", "Grand Est", "Pays de la Loire", "Bretagne",
			"Normandie", "Bourgogne-Franche-Comté", "Centre-Val de Loire", "Corse",
		},
		MajorCities: []string{
			"Paris", "Marseille", "Lyon", "Toulouse", "Nice", "Nantes", "Strasbourg",
			"Montpellier", "Bordeaux", "Lille",
		},
	},
	{
		Code: "DE",
		Name: "Germany",
		States: []string{
			"Baden-Württemberg", "Bavaria", "Berlin", "Brandenburg", "Bremen", "Hamburg",
			"Hesse", "Lower Saxony", "Mecklenburg-Vorpommern", "North Rhine-Westphalia",
			"Rhineland-Palatinate", "Saarland", "Saxony", "Saxony-Anhalt",
			"Schleswig-Holstein", "Thuringia",
		},
		MajorCities: []string{
			"Berlin", "Hamburg", "Munich", "Cologne", "Frankfurt", "Stuttgart", "Düsseldorf",
			"Leipzig", "Dortmund", "Essen",
		},
	},
	{
		Code: "RU",
		Name: "Russia",
		States: []string{
			"Moscow", "Saint Petersburg", "Novosibirsk", "Yekaterinburg", "Nizhny Novgorod",
			"Kazan", "Chelyabinsk", "Omsk", "Samara", "Rostov-on-Don",
		},
		MajorCities: []string{
			"Moscow", "Saint Petersburg", "Novosibirsk", "Yekaterinburg", "Nizhny Novgorod",
			"Kazan", "Chelyabinsk", "Omsk", "Samara", "Rostov-on-Don",
		},
	},
	{
		Code: "SG",
		Name: "Singapore",
		States: []string{
			"Central Region", "East Region", "North Region", "North-East Region", "West Region",
		},
		MajorCities: []string{
			"Singapore", "Jurong", "Woodlands", "Tampines", "Serangoon", "Bedok",
			"Bukit Merah", "Bukit Timah", "Geylang", "Kallang",
		},
	},
	{
		Code: "PK",
		Name: "Pakistan",
		States: []string{
			"Punjab", "Sindh", "Khyber Pakhtunkhwa", "Balochistan", "Islamabad Capital Territory",
			"Gilgit-Baltistan", "Azad Kashmir",
		},
		MajorCities: []string{
			"Karachi", "Lahore", "Faisalabad", "Rawalpindi", "Multan", "Hyderabad", "Gujranwala",
			"Peshawar", "Quetta", "Islamabad", "Sialkot", "Bahawalpur", "Sargodha", "Sukkur",
			"Larkana", "Sheikhupura", "Rahim Yar Khan", "Jhang", "Mardan", "Gujrat",
		},
	},
}

func init() {
	sort.SliceStable(catalog, func(i, j int) bool { return catalog[i].Name < catalog[j].Name })
}

// All returns the catalog sorted by country name. The returned slice is a
// copy; callers may reorder it freely.
func All() []Country {
	out := make([]Country, len(catalog))
	copy(out, catalog)
	return out
}

// Region resolves a country name or ISO code to its two-letter region code.
// It reports false for countries outside the catalog.
func Region(country string) (string, bool) {
	country = strings.TrimSpace(country)
	if country == "" {
		return "", false
	}
	for _, c := range catalog {
		if strings.EqualFold(c.Code, country) || strings.EqualFold(c.Name, country) {
			return c.Code, true
		}
	}
	return "", false
}
