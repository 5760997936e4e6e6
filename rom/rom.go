// Package rom converts raw firmware images into the text form used to
// initialise the VHDL ROMs.
package rom

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// WordSize is the number of bytes in a ROM word.
const WordSize = 4

// Default image names produced by the firmware build.
const (
	InstructionImage = "instr.bin"
	DataImage        = "rodata.bin"
)

// ErrInvalidLength is returned when an image is not a whole number of words.
var ErrInvalidLength = errors.New("invalid length")

// Kind selects the output layout.
type Kind int

// Image kinds.
const (
	Instruction Kind = iota
	Data
)

func (k Kind) String() string {
	switch k {
	case Instruction:
		return "instr"
	case Data:
		return "data"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind turns "instr" or "data" into a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "instr", "instruction":
		return Instruction, nil
	case "data", "rodata":
		return Data, nil
	default:
		return 0, fmt.Errorf("unknown rom kind %q", s)
	}
}

// Write renders data in the layout of the given kind.
func Write(w io.Writer, data []byte, kind Kind) error {
	switch kind {
	case Instruction:
		return WriteInstructionROM(w, data)
	case Data:
		return WriteDataROM(w, data)
	default:
		return fmt.Errorf("unknown rom kind %d", int(kind))
	}
}

// WriteInstructionROM writes one x"b3b2b1b0" line per word.
func WriteInstructionROM(w io.Writer, data []byte) error {
	return writeROM(w, data, func(bw *bufio.Writer, word []byte) {
		fmt.Fprintf(bw, "x\"%02x%02x%02x%02x\"", word[3], word[2], word[1], word[0])
	})
}

// WriteDataROM writes one (x"b3", x"b2", x"b1", x"b0") line per word.
func WriteDataROM(w io.Writer, data []byte) error {
	return writeROM(w, data, func(bw *bufio.Writer, word []byte) {
		fmt.Fprintf(bw, "(x\"%02x\", x\"%02x\", x\"%02x\", x\"%02x\")",
			word[3], word[2], word[1], word[0])
	})
}

func writeROM(
	w io.Writer,
	data []byte,
	writeWord func(bw *bufio.Writer, word []byte),
) error {
	if len(data)%WordSize != 0 {
		return fmt.Errorf("%d bytes: %w", len(data), ErrInvalidLength)
	}

	nWords := len(data) / WordSize
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "SIZE_BYTES = %d\n", len(data))
	fmt.Fprintf(bw, "SIZE_WORDS = %d\n\n", nWords)
	bw.WriteString("Content: \n")

	for i := 0; i < nWords; i++ {
		writeWord(bw, data[i*WordSize:(i+1)*WordSize])

		if i < nWords-1 {
			bw.WriteByte(',')
		}

		bw.WriteByte('\n')
	}

	return bw.Flush()
}

// OutputName returns the text file name for an image: the name up to its
// first dot, followed by ".txt".
func OutputName(name string) string {
	if i := strings.Index(name, "."); i >= 0 {
		name = name[:i]
	}

	return name + ".txt"
}

// ConvertFile converts dir/name and writes the result next to it. It returns
// the path of the written file. Nothing is written if the image is invalid.
func ConvertFile(dir, name string, kind Kind) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("rom: %w", err)
	}

	buf := bytes.NewBuffer(nil)

	err = Write(buf, data, kind)
	if err != nil {
		return "", fmt.Errorf("rom: %s: %w", name, err)
	}

	out := filepath.Join(dir, OutputName(name))

	err = os.WriteFile(out, buf.Bytes(), 0o644)
	if err != nil {
		return "", fmt.Errorf("rom: %w", err)
	}

	return out, nil
}

// Image names a firmware image and the kind of ROM it is rendered into.
type Image struct {
	Name string
	Kind Kind
}

// DefaultImages are the images produced by the firmware build.
func DefaultImages() []Image {
	return []Image{
		{Name: InstructionImage, Kind: Instruction},
		{Name: DataImage, Kind: Data},
	}
}

// ConvertAll converts each image found in dir, or the default images when
// none are given. An invalid image does not stop the remaining ones.
func ConvertAll(dir string, images ...Image) ([]string, error) {
	if len(images) == 0 {
		images = DefaultImages()
	}

	var (
		outputs []string
		errs    []error
	)

	for _, img := range images {
		out, err := ConvertFile(dir, img.Name, img.Kind)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		outputs = append(outputs, out)
	}

	return outputs, errors.Join(errs...)
}
