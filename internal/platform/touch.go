package platform

import "github.com/duoscreen/orchestrator/internal/model"

// NewTouchMatrixRecompute builds a TouchConfig.Recompute closure that
// confines a touch device to the named output's portion of the combined
// virtual canvas, in the [a, b, c, d, e, f] xinput coordinate-transform
// matrix form (scale_x, 0, offset_x, 0, scale_y, offset_y).
func NewTouchMatrixRecompute(screenName string) func([]model.ScreenInfo) [6]float64 {
	return func(screens []model.ScreenInfo) [6]float64 {
		var target model.ScreenInfo
		var found bool
		minX, minY := 0, 0
		maxX, maxY := 0, 0

		for i, s := range screens {
			if !s.Enabled {
				continue
			}
			if i == 0 {
				minX, minY = s.PosX, s.PosY
				maxX, maxY = s.PosX+s.Width, s.PosY+s.Height
			} else {
				if s.PosX < minX {
					minX = s.PosX
				}
				if s.PosY < minY {
					minY = s.PosY
				}
				if s.PosX+s.Width > maxX {
					maxX = s.PosX + s.Width
				}
				if s.PosY+s.Height > maxY {
					maxY = s.PosY + s.Height
				}
			}
			if s.Name == screenName {
				target = s
				found = true
			}
		}

		if !found {
			return [6]float64{1, 0, 0, 0, 1, 0}
		}

		totalWidth := maxX - minX
		totalHeight := maxY - minY
		if totalWidth == 0 || totalHeight == 0 {
			return [6]float64{1, 0, 0, 0, 1, 0}
		}

		scaleX := float64(target.Width) / float64(totalWidth)
		scaleY := float64(target.Height) / float64(totalHeight)
		offsetX := float64(target.PosX-minX) / float64(totalWidth)
		offsetY := float64(target.PosY-minY) / float64(totalHeight)

		return [6]float64{scaleX, 0, offsetX, 0, scaleY, offsetY}
	}
}
