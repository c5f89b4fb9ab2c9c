package geomag

// WMM2005 main field and secular variation, released 12/20/2004.
var wmm2005 = &Coefficients{
	Epoch: 2005,
	G: [][]float64{
		{0.0},
		{-29556.8, -1671.7},
		{-2340.6, 3046.9, 1657.0},
		{1335.4, -2305.1, 1246.7, 674.0},
		{919.8, 798.1, 211.3, -379.4, 100.0},
		{-227.4, 354.6, 208.7, -136.5, -168.3, -14.1},
		{73.2, 69.7, 76.7, -151.2, -14.9, 14.6, -86.3},
		{80.1, -74.5, -1.4, 38.5, 12.4, 9.5, 5.7, 1.8},
		{24.9, 7.7, -11.6, -6.9, -18.2, 10.0, 9.2, -11.6, -5.2},
		{5.6, 9.9, 3.5, -7.0, 5.1, -10.8, -1.3, 8.8, -6.7, -9.1},
		{-2.3, -6.3, 1.6, -2.6, 0.0, 3.1, 0.4, 2.1, 3.9, -0.1, -2.3},
		{2.8, -1.6, -1.7, 1.7, -0.1, 0.1, -0.7, 0.7, 1.8, 0.0, 1.1, 4.1},
		{-2.4, -0.4, 0.2, 0.8, -0.3, 1.1, -0.5, 0.4, -0.3, -0.3, -0.1, -0.3, -0.1},
	},
	H: [][]float64{
		{0.0},
		{0.0, 5079.8},
		{0.0, -2594.7, -516.7},
		{0.0, -199.9, 269.3, -524.2},
		{0.0, 281.5, -226.0, 145.8, -304.7},
		{0.0, 42.4, 179.8, -123.0, -19.5, 103.6},
		{0.0, -20.3, 54.7, 63.6, -63.4, -0.1, 50.4},
		{0.0, -61.5, -22.4, 7.2, 25.4, 11.0, -26.4, -5.1},
		{0.0, 11.2, -21.0, 9.6, -19.8, 16.1, 7.7, -12.9, -0.2},
		{0.0, -20.1, 12.9, 12.6, -6.7, -8.1, 8.0, 2.9, -7.9, 6.0},
		{0.0, 2.4, 0.2, 4.4, 4.8, -6.5, -1.1, -3.4, -0.8, -2.3, -7.9},
		{0.0, 0.3, 1.2, -0.8, -2.5, 0.9, -0.6, -2.7, -0.9, -1.3, -2.0, -1.2},
		{0.0, -0.4, 0.3, 2.4, -2.6, 0.6, 0.3, 0.0, 0.0, 0.3, -0.9, -0.4, 0.8},
	},
	DG: [][]float64{
		{0.0},
		{8.0, 10.6},
		{-15.1, -7.8, -0.8},
		{0.4, -2.6, -1.2, -6.5},
		{-2.5, 2.8, -7.0, 6.2, -3.8},
		{-2.8, 0.7, -3.2, -1.1, 0.1, -0.8},
		{-0.7, 0.4, -0.3, 2.3, -2.1, -0.6, 1.4},
		{0.2, -0.1, -0.3, 1.1, 0.6, 0.5, -0.4, 0.6},
		{0.1, 0.3, -0.4, 0.3, -0.3, 0.2, 0.4, -0.7, 0.4},
		{0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0},
		{0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0},
		{0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0},
		{0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0},
	},
	DH: [][]float64{
		{0.0},
		{0.0, -20.9},
		{0.0, -23.2, -14.6},
		{0.0, 5.0, -7.0, -0.6},
		{0.0, 2.2, 1.6, 5.8, 0.1},
		{0.0, 0.0, 1.7, 2.1, 4.8, -1.1},
		{0.0, -0.6, -1.9, -0.4, -0.5, -0.3, 0.7},
		{0.0, 0.6, 0.4, 0.2, 0.3, -0.8, -0.2, 0.1},
		{0.0, -0.2, 0.1, 0.3, 0.4, 0.1, -0.2, 0.4, 0.4},
		{0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0},
		{0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0},
		{0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0},
		{0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0},
	},
}
