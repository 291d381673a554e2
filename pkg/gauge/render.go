package gauge

// SegmentSize denotes the number of pixels per serving in segmented mode
const SegmentSize = 2

// Renderer denotes a visualization policy mapping a stable weight onto a strip
type Renderer func(buf Buffer, weight float64, cfg DisplayConfig)

// Render computes the pixel colors for a stable weight according to the configured mode.
// An invalid mode yields an unlit strip.
func Render(weight float64, cfg DisplayConfig, pixelCount int) Buffer {
	buf := NewBuffer(pixelCount)
	if fn := rendererFor(cfg.Mode); fn != nil {
		fn(buf, weight, cfg)
	}

	return buf
}

func rendererFor(mode Mode) Renderer {
	switch mode {
	case ModeContinuous:
		return renderContinuous
	case ModeDiscrete:
		return renderDiscrete
	case ModeSegmented:
		return renderSegmented
	default:
		return nil
	}
}

func renderContinuous(buf Buffer, weight float64, cfg DisplayConfig) {
	fill := weight * float64(len(buf)) / cfg.Capacity
	for i := range buf {
		buf[i] = Ramp(cfg.Brightness, fill-float64(i))
	}
}

func renderDiscrete(buf Buffer, weight float64, cfg DisplayConfig) {
	servings := cfg.Servings()
	level := weight / cfg.UnitPerServing
	for i := range buf {

		// Pixels beyond the configured capacity mark the ceiling and stay dark
		if i > servings {
			buf[i] = Off
			continue
		}
		buf[i] = Ramp(cfg.Brightness, level-float64(i))
	}
}

func renderSegmented(buf Buffer, weight float64, cfg DisplayConfig) {
	servings := cfg.Servings()
	available := weight / cfg.UnitPerServing

	buf.Fill(Off)
	for c := 0; c < servings; c++ {
		offset := c * (SegmentSize + 1)
		if offset >= len(buf) {
			break
		}

		// The pixel at offset+SegmentSize separates two servings and remains unlit
		for p := 0; p < SegmentSize; p++ {
			buf.Set(offset+p, Ramp(cfg.Brightness, (available-float64(c))*SegmentSize-float64(p)))
		}
	}
}
