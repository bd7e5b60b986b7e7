package render

// DrawLine draws a line from (x0, y0) to (x1, y1) with integer-only
// Bresenham stepping. Both endpoints are painted. Steep lines are walked
// along y, and the endpoints are always ordered left to right, so swapping
// them paints the same pixel set. Pixels outside the canvas are dropped.
func DrawLine(c Canvas, x0, y0, x1, y1 int, col Color) {
	w, h := c.Size()
	plot := func(x, y int) {
		if x < 0 || x >= w || y < 0 || y >= h {
			return
		}
		c.SetPixel(x, y, col)
	}

	steep := abs(x1-x0) < abs(y1-y0)
	if steep {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	dx := x1 - x0
	derror2 := abs(y1-y0) * 2
	ystep := 1
	if y1 < y0 {
		ystep = -1
	}

	error2 := 0
	y := y0
	for x := x0; x <= x1; x++ {
		if steep {
			plot(y, x)
		} else {
			plot(x, y)
		}
		error2 += derror2
		if error2 > dx {
			y += ystep
			error2 -= dx * 2
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
