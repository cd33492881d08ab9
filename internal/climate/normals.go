package climate

import "strings"

// Fallback climate used whenever a live lookup fails.
const (
	DefaultTemperatureC     = 25.0
	DefaultAnnualRainfallMm = 800.0
)

// rainfallNormals holds long-run annual rainfall (mm) for Indian states,
// union territories and major cities.
var rainfallNormals = map[string]float64{
	"andaman and nicobar islands": 2967, "andhra pradesh": 903.6, "arunachal pradesh": 2782,
	"assam": 2818, "bihar": 1186, "chandigarh": 617, "chhattisgarh": 1160,
	"dadra and nagar haveli": 2000, "daman and diu": 2000, "delhi": 617, "goa": 3005,
	"gujarat": 840, "haryana": 617, "himachal pradesh": 1251, "jammu and kashmir": 1011,
	"jharkhand": 1326, "karnataka": 1150, "kerala": 3055, "ladakh": 100,
	"lakshadweep": 1515, "madhya pradesh": 1150, "maharashtra": 1180, "manipur": 1881,
	"meghalaya": 2818, "mizoram": 1881, "nagaland": 1881, "odisha": 1489,
	"puducherry": 998, "punjab": 649, "rajasthan": 494, "sikkim": 2739,
	"tamil nadu": 998, "telangana": 961, "tripura": 1881, "uttar pradesh": 960,
	"uttarakhand": 1667, "west bengal": 2089,

	"hyderabad": 961, "mumbai": 3005, "chennai": 998, "kolkata": 1439,
	"bangalore": 1126, "ahmedabad": 800, "pune": 901, "jaipur": 675,
	"lucknow": 1025, "patna": 1186, "bhopal": 1017, "thiruvananthapuram": 3055,
	"guwahati": 2818, "bhubaneswar": 1489, "visakhapatnam": 1094,
}

// AnnualRainfall returns the rainfall normal for a region or city name,
// matched case-insensitively. Unknown regions get DefaultAnnualRainfallMm.
func AnnualRainfall(region string) (mm float64, known bool) {
	key := strings.ToLower(strings.Join(strings.Fields(region), " "))
	if v, ok := rainfallNormals[key]; ok {
		return v, true
	}
	return DefaultAnnualRainfallMm, false
}
