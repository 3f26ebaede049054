package hw

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/julianstephens/nixie/internal/device"
	"github.com/julianstephens/nixie/internal/models"
)

type fakePanel struct {
	frames   []int
	contrast []byte
}

func (p *fakePanel) Bounds() image.Rectangle {
	return image.Rect(0, 0, 128, 64)
}

func (p *fakePanel) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	lit := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if color.GrayModel.Convert(src.At(x, y)).(color.Gray).Y > 0 {
				lit++
			}
		}
	}
	p.frames = append(p.frames, lit)
	return nil
}

func (p *fakePanel) SetContrast(level byte) error {
	p.contrast = append(p.contrast, level)
	return nil
}

func (p *fakePanel) last() int {
	return p.frames[len(p.frames)-1]
}

func newOLED() (*OLED, *fakePanel, *int) {
	panel := &fakePanel{}
	o := NewOLED(panel)
	pauses := 0
	o.sleep = func(time.Duration) { pauses++ }
	return o, panel, &pauses
}

func TestOLED_ShowAndDisable(t *testing.T) {
	o, panel, _ := newOLED()

	o.ShowFixedString("12:30")
	if o.Text() != "12:30   " {
		t.Errorf("Text() = %q", o.Text())
	}
	if panel.last() == 0 {
		t.Error("expected lit pixels")
	}

	o.SetEnabled(false)
	if panel.last() != 0 {
		t.Error("disabled panel should be dark")
	}
	frames := len(panel.frames)
	o.SetEnabled(false)
	if len(panel.frames) != frames {
		t.Error("redundant disable redrew the panel")
	}

	o.SetEnabled(true)
	if panel.last() == 0 || o.Text() != "12:30   " {
		t.Error("enable should restore the text")
	}
}

func TestOLED_SetSingleCharacter(t *testing.T) {
	o, _, _ := newOLED()
	o.ShowFixedString("00:00:00")
	o.SetSingleCharacter(7, '5')
	o.SetSingleCharacter(8, '9')
	if o.Text() != "00:00:05" {
		t.Errorf("Text() = %q", o.Text())
	}
}

func TestOLED_Brightness(t *testing.T) {
	o, panel, _ := newOLED()
	o.SetBrightness(models.BrightnessMin)
	o.SetBrightness(models.BrightnessAuto)
	o.SetBrightness(models.BrightnessMax)
	want := []byte{31, 255, 255}
	for i, c := range want {
		if panel.contrast[i] != c {
			t.Errorf("contrast[%d] = %d, want %d", i, panel.contrast[i], c)
		}
	}
}

func TestOLED_Effects(t *testing.T) {
	o, _, pauses := newOLED()

	o.ScrollEffect("DIVERGE", device.ScrollLeft, 80)
	if *pauses != 7 || o.Text() != "DIVERGE " {
		t.Errorf("scroll: %d pauses, text %q", *pauses, o.Text())
	}

	*pauses = 0
	o.ScrollEffect("TIMER", device.ScrollRight, 0)
	if *pauses != 0 || o.Text() != "TIMER   " {
		t.Errorf("instant scroll: %d pauses, text %q", *pauses, o.Text())
	}

	*pauses = 0
	o.SlotMachineEffect("88888888", 10)
	if *pauses != 8*slotSpins || o.Text() != "88888888" {
		t.Errorf("slot machine: %d pauses, text %q", *pauses, o.Text())
	}
}
