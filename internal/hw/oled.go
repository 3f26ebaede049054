package hw

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math/rand/v2"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/julianstephens/nixie/internal/constants"
	"github.com/julianstephens/nixie/internal/device"
	"github.com/julianstephens/nixie/internal/logger"
	"github.com/julianstephens/nixie/internal/models"
)

// Panel is a monochrome frame buffer.
type Panel interface {
	Bounds() image.Rectangle
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
}

type contraster interface {
	SetContrast(level byte) error
}

const slotSpins = 3

// OLED implements device.Display on a small panel. Letters are rewritten to
// the digits a tube could show so the output matches the real display.
// Effects block, stepping a frame every speed milliseconds.
type OLED struct {
	panel   Panel
	text    string
	enabled bool
	level   models.Brightness
	sleep   func(time.Duration)
	rng     *rand.Rand
}

// OpenOLED opens an SSD1306 on the bus at its default address.
func OpenOLED(bus i2c.Bus) (*OLED, error) {
	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open ssd1306: %w", err)
	}
	return NewOLED(dev), nil
}

func NewOLED(panel Panel) *OLED {
	return &OLED{
		panel:   panel,
		text:    blank(),
		enabled: true,
		level:   models.BrightnessMax,
		sleep:   time.Sleep,
		rng:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
	}
}

func blank() string {
	return device.Fit("", constants.DisplayCount)
}

// Text returns what the tubes currently show.
func (o *OLED) Text() string {
	return o.text
}

func (o *OLED) SetBrightness(level models.Brightness) {
	if level == models.BrightnessAuto || level > models.BrightnessMax {
		level = models.BrightnessMax
	}
	o.level = level
	if c, ok := o.panel.(contraster); ok {
		if err := c.SetContrast(contrast(level)); err != nil {
			logger.Warn("Failed to set contrast", "error", err)
		}
	}
}

// contrast spreads Min..Max over the panel's contrast range.
func contrast(level models.Brightness) byte {
	return byte(int(level) * 255 / int(models.BrightnessMax))
}

func (o *OLED) ShowFixedString(text string) {
	o.text = device.Fit(text, constants.DisplayCount)
	o.render(o.text)
}

func (o *OLED) SetSingleCharacter(position int, c byte) {
	if position < 0 || position >= constants.DisplayCount {
		return
	}
	buf := []byte(o.text)
	buf[position] = c
	o.text = string(buf)
	o.render(o.text)
}

// ScrollEffect slides text in from one edge, one column per frame.
func (o *OLED) ScrollEffect(text string, dir device.Direction, speed int) {
	o.play(device.ScrollFrames(o.text, text, dir, constants.DisplayCount), speed)
	o.ShowFixedString(text)
}

// SlotMachineEffect spins every tube and settles them left to right.
func (o *OLED) SlotMachineEffect(text string, speed int) {
	digit := func() byte { return byte('0' + o.rng.IntN(10)) }
	o.play(device.SlotFrames(text, slotSpins, constants.DisplayCount, digit), speed)
	o.ShowFixedString(text)
}

func (o *OLED) play(frames []string, speed int) {
	for _, f := range frames {
		o.render(f)
		o.pause(speed)
	}
}

func (o *OLED) SetEnabled(on bool) {
	if o.enabled == on {
		return
	}
	o.enabled = on
	o.render(o.text)
}

func (o *OLED) pause(speed int) {
	if speed > 0 {
		o.sleep(time.Duration(speed) * time.Millisecond)
	}
}

// render draws text centred on the panel, or clears it while disabled.
func (o *OLED) render(text string) {
	bounds := o.panel.Bounds()
	frame := image.NewGray(bounds)
	if o.enabled {
		face := basicfont.Face7x13
		width := font.MeasureString(face, text).Ceil()
		x := bounds.Min.X + (bounds.Dx()-width)/2
		y := bounds.Min.Y + (bounds.Dy()+face.Ascent)/2
		d := font.Drawer{
			Dst:  frame,
			Src:  image.NewUniform(color.Gray{Y: 255}),
			Face: face,
			Dot:  fixed.P(x, y),
		}
		d.DrawString(device.TubeText(text))
	}

	img := image1bit.NewVerticalLSB(bounds)
	draw.Draw(img, bounds, frame, bounds.Min, draw.Src)
	if err := o.panel.Draw(bounds, img, bounds.Min); err != nil {
		logger.Warn("Panel draw failed", "error", err)
	}
}
