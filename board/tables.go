package board

// Channel tables are indexed [pixel][channel] with channels in R, G, B order.

// keybowTable is indexed by Keybow 2040 key number.
var keybowTable = [16][3]uint8{
	{120, 88, 104},
	{136, 40, 72},
	{112, 80, 96},
	{128, 32, 64},
	{121, 89, 105},
	{137, 41, 73},
	{113, 81, 97},
	{129, 33, 65},
	{122, 90, 106},
	{138, 25, 74},
	{114, 82, 98},
	{130, 17, 66},
	{123, 91, 107},
	{139, 26, 75},
	{115, 83, 99},
	{131, 18, 67},
}

// rgb5x5Table is in row major order from the top left.
var rgb5x5Table = [25][3]uint8{
	{118, 69, 85},
	{117, 68, 101},
	{116, 84, 100},
	{115, 83, 99},
	{114, 82, 98},
	{132, 19, 35},
	{133, 20, 36},
	{134, 21, 37},
	{112, 80, 96},
	{113, 81, 97},
	{131, 18, 34},
	{130, 17, 50},
	{129, 33, 49},
	{128, 32, 48},
	{127, 47, 63},
	{125, 28, 44},
	{124, 27, 43},
	{123, 26, 42},
	{122, 25, 58},
	{121, 41, 57},
	{126, 29, 45},
	{15, 95, 111},
	{8, 89, 105},
	{9, 90, 106},
	{10, 91, 107},
}

// shimTable runs left to right along the LED SHIM.
var shimTable = [28][3]uint8{
	{118, 69, 85},
	{117, 68, 101},
	{116, 84, 100},
	{115, 83, 99},
	{114, 82, 98},
	{113, 81, 97},
	{112, 80, 96},
	{134, 21, 37},
	{133, 20, 36},
	{132, 19, 35},
	{131, 18, 34},
	{130, 17, 53},
	{129, 33, 54},
	{128, 32, 55},
	{127, 47, 63},
	{121, 41, 57},
	{122, 25, 58},
	{123, 26, 42},
	{124, 27, 43},
	{125, 28, 44},
	{126, 29, 45},
	{14, 95, 111},
	{8, 89, 105},
	{9, 90, 106},
	{10, 91, 107},
	{11, 92, 108},
	{12, 76, 109},
	{13, 77, 93},
}
