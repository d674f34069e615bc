package media

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
)

// ResizeLocalImage serves a width-resized copy of an image from the
// site's public directory. The file path is cleaned and anchored to
// publicDir so requests cannot reach outside it.
func ResizeLocalImage(publicDir, file string, targetWidth int, w http.ResponseWriter) error {

	cleaned := filepath.Clean("/" + file)
	imagePath := filepath.Join(publicDir, cleaned)
	if !strings.HasPrefix(imagePath, filepath.Clean(publicDir)+string(os.PathSeparator)) {
		return fmt.Errorf("invalid file path: %s", file)
	}

	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		return err
	}

	// Determine the input image format
	format := http.DetectContentType(imageData)

	// Return the original file if the format is not JPEG or PNG
	if format != "image/jpeg" && format != "image/png" {
		w.Header().Set("Content-Type", format)
		w.Header().Set("Content-Length", fmt.Sprintf("%d", len(imageData)))
		w.Header().Set("Content-Disposition", "inline")

		bufferedWriter := bufio.NewWriter(w)
		_, err := bufferedWriter.Write(imageData)
		if err != nil {
			return err
		}
		bufferedWriter.Flush()

		return nil
	}

	// Decode the image
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return err
	}

	// Resize the image
	resizedImage := resize.Resize(uint(targetWidth), 0, img, resize.Lanczos3)

	// Encode the resized image
	imageBytes, err := encodeImage(resizedImage, format)
	if err != nil {
		fmt.Println(err)
		return err
	}

	// Set the appropriate headers for the HTTP response
	w.Header().Set("Content-Type", format)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(imageBytes)))
	w.Header().Set("Cache-Control", "public, max-age=86400")

	// Use a buffered writer for improved writing performance
	bufferedWriter := bufio.NewWriter(w)
	_, err = bufferedWriter.Write(imageBytes)
	if err != nil {
		return err
	}
	bufferedWriter.Flush()

	return nil
}

func encodeImage(img image.Image, format string) ([]byte, error) {
	var imageBytes []byte
	buffer := new(bytes.Buffer)

	// Encode the image based on the format
	switch strings.ToLower(format) {
	case "image/jpeg":
		err := jpeg.Encode(buffer, img, nil)
		if err != nil {
			return nil, err
		}
	case "image/png":
		err := png.Encode(buffer, img)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported image format: %s", format)
	}

	imageBytes = buffer.Bytes()
	return imageBytes, nil
}
