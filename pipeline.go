package roomview

import (
	"context"
	"errors"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/bodgit/roomview/photo"
	"github.com/bodgit/roomview/sprite"
)

// Kind selects the format images are converted to.
type Kind int

const (
	// KindPhoto converts to the 5:6:5 room photo format
	KindPhoto Kind = iota
	// KindSprite converts to the 2:2:2 object image format
	KindSprite
)

// Ext returns the filename extension used for the format.
func (k Kind) Ext() string {
	if k == KindSprite {
		return ".obj"
	}
	return ".photo"
}

func (k Kind) String() string {
	if k == KindSprite {
		return "sprite"
	}
	return "photo"
}

func isImage(file string) bool {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".png", ".jpg", ".jpeg", ".gif":
		return true
	}
	return false
}

// ConvertFile decodes the PNG, JPEG or GIF image in file and writes it
// alongside in the format selected by kind, returning the new filename.
func ConvertFile(file string, kind Kind) (string, error) {
	in, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer in.Close()

	m, _, err := image.Decode(in)
	if err != nil {
		return "", err
	}

	target := strings.TrimSuffix(file, filepath.Ext(file)) + kind.Ext()

	out, err := os.Create(target)
	if err != nil {
		return "", err
	}

	switch kind {
	case KindSprite:
		err = sprite.Encode(out, m)
	default:
		err = photo.Encode(out, m)
	}
	if err != nil {
		out.Close()
		os.Remove(target)
		return "", err
	}

	return target, out.Close()
}

func findImages(ctx context.Context, base string) (<-chan string, <-chan error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories
			if info.Name()[0] == '.' && file != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() || !isImage(file) {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc
}

func convertWorker(ctx context.Context, in <-chan string, kind Kind, logger *log.Logger) <-chan error {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			target, err := ConvertFile(file, kind)
			if err != nil {
				logger.Printf("Unable to convert \"%s\": %s\n", file, err)
				errc <- err
				return
			}
			logger.Printf("Converted \"%s\" to %s \"%s\"\n", file, kind, target)

			select {
			case <-ctx.Done():
				return
			default:
			}
		}
	}()
	return errc
}

func waitForPipeline(cancel context.CancelFunc, errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	var first error
	for err := range errc {
		if err != nil && first == nil {
			first = err
			cancel()
		}
	}
	return first
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// ConvertDir converts every PNG, JPEG and GIF image found under path using
// a pool of workers. If workers is less than one, one worker per CPU is
// used. The first error stops the conversion.
func ConvertDir(path string, kind Kind, workers int, logger *log.Logger) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	if workers < 1 {
		workers = runtime.NumCPU()
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc := findImages(ctx, dir)
	errcList = append(errcList, errc)

	for i := 0; i < workers; i++ {
		errcList = append(errcList, convertWorker(ctx, files, kind, logger))
	}

	return waitForPipeline(cancelFunc, errcList...)
}
