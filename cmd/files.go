package main

import (
	"errors"
	"fmt"
	"image"
	"os"
	"strings"
	"unicode"

	"barcode-scanner/internal/infrastructure/decoder"
)

func loadImageFile(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, format, err := decoder.LoadImage(f, decoder.DefaultMaxSide)
	if err != nil {
		return nil, "", fmt.Errorf("load image %s: %w", path, err)
	}
	return img, format, nil
}

// normalizeBarcode убирает пробелы и проверяет, что код не пустой.
func normalizeBarcode(raw string) (string, error) {
	barcode := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	if barcode == "" {
		return "", errors.New("barcode is empty")
	}
	return barcode, nil
}
