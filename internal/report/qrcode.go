package report

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	labelWidth  = 800
	labelHeight = 650
	qrSize      = 350
	qrTop       = 50
)

var (
	colorRed    = color.RGBA{R: 255, A: 255}
	colorGreen  = color.RGBA{G: 128, A: 255}
	colorOrange = color.RGBA{R: 255, G: 165, A: 255}
	colorBlue   = color.RGBA{B: 255, A: 255}
)

// ToolLabel is the data encoded in and printed under a tool's QR code.
type ToolLabel struct {
	EquipmentName string
	SerialNo      string
	ExpiryDate    string
	Status        string
}

func (l ToolLabel) expiry() string {
	if l.ExpiryDate == "" {
		return "N/A"
	}
	return l.ExpiryDate
}

// LabelText is the payload encoded in the QR code.
func (g *Generator) LabelText(l ToolLabel) string {
	return fmt.Sprintf("Equipment Information:\nDevice Name: %s\nSerial Number: %s\nOwner: %s\nCalibration Expiry: %s\nStatus: %s",
		l.EquipmentName, l.SerialNo, g.organization, l.expiry(), l.Status)
}

// StatusColor is red for expired tools, green for valid ones and orange for
// anything else.
func StatusColor(status string) color.Color {
	switch status {
	case "Expired":
		return colorRed
	case "Valid":
		return colorGreen
	default:
		return colorOrange
	}
}

type labelFonts struct {
	bold    *truetype.Font
	regular *truetype.Font
}

var (
	fontsOnce sync.Once
	fonts     labelFonts
	fontsErr  error
)

// loadFonts parses the embedded Go fonts once. Faces built from them keep a
// glyph cache and are created per render.
func loadFonts() (labelFonts, error) {
	fontsOnce.Do(func() {
		bold, err := truetype.Parse(gobold.TTF)
		if err != nil {
			fontsErr = fmt.Errorf("failed to parse bold font: %w", err)
			return
		}
		regular, err := truetype.Parse(goregular.TTF)
		if err != nil {
			fontsErr = fmt.Errorf("failed to parse regular font: %w", err)
			return
		}
		fonts = labelFonts{bold: bold, regular: regular}
	})
	return fonts, fontsErr
}

// ToolLabel renders a PNG with the QR code centred at the top and the tool
// identity printed below it.
func (g *Generator) ToolLabel(l ToolLabel) ([]byte, error) {
	code, err := qrcode.New(g.LabelText(l), qrcode.High)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}

	src := code.Image(qrSize)
	qr := image.NewRGBA(image.Rect(0, 0, qrSize, qrSize))
	draw.NearestNeighbor.Scale(qr, qr.Bounds(), src, src.Bounds(), draw.Src, nil)

	fnt, err := loadFonts()
	if err != nil {
		return nil, err
	}
	large := truetype.NewFace(fnt.bold, &truetype.Options{Size: 22})
	defer large.Close()
	medium := truetype.NewFace(fnt.regular, &truetype.Options{Size: 16})
	defer medium.Close()

	dc := gg.NewContext(labelWidth, labelHeight)
	dc.SetColor(color.White)
	dc.Clear()
	dc.DrawImage(qr, (labelWidth-qrSize)/2, qrTop)

	statusColor := StatusColor(l.Status)
	y := 420.0
	lines := []struct {
		text    string
		face    font.Face
		color   color.Color
		advance float64
	}{
		{l.EquipmentName, large, color.Black, 40},
		{"Serial No: " + l.SerialNo, medium, color.Black, 35},
		{"Expiry: " + l.expiry(), medium, statusColor, 35},
		{"Status: " + l.Status, medium, statusColor, 45},
		{g.organization, large, colorBlue, 0},
	}
	for _, line := range lines {
		dc.SetFontFace(line.face)
		dc.SetColor(line.color)
		dc.DrawStringAnchored(line.text, labelWidth/2, y, 0.5, 1)
		y += line.advance
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode label: %w", err)
	}
	return buf.Bytes(), nil
}
