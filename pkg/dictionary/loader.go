// Package dictionary loads the word lists behind the local completion
// provider and reloads them when they change on disk.
//
// Two formats are read: plain text with one word per line, and the binary
// chunk format (int32 word count, then per word a uint16 byte length, the
// UTF-8 bytes and a uint16 rank, all little-endian). Chunk entries are
// returned by ascending rank.
package dictionary

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bastiangx/wordassist/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
)

var (
	// ErrUnknownFormat is returned for files that are neither text nor chunk
	// dictionaries.
	ErrUnknownFormat = errors.New("unknown dictionary format")
	// ErrEmptyDictionary is returned when a source yields no words.
	ErrEmptyDictionary = errors.New("dictionary has no words")
)

// ChunkInfo contains metadata about a chunk file
type ChunkInfo struct {
	ID        int
	Filename  string
	WordCount int
}

type rankedWord struct {
	word string
	rank uint16
}

// Load reads the words of a dictionary file, or of every dictionary file
// in a directory (see LoadDir).
func Load(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to stat dictionary %s", path)
	}
	if info.IsDir() {
		return LoadDir(path)
	}

	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	words, err := loadFile(path, format)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, errors.Wrapf(ErrEmptyDictionary, "%s", path)
	}
	log.Debugf("Loaded %d words from %s (%s)", len(words), path, format)
	return words, nil
}

// LoadDir reads all chunk files (dict_NNNN.bin, by id) and then all text
// files (*.txt, by name) in dir.
func LoadDir(dir string) ([]string, error) {
	chunks, err := GetAvailableChunks(dir)
	if err != nil {
		return nil, err
	}
	texts, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan for text dictionaries")
	}
	sort.Strings(texts)

	var words []string
	for _, chunk := range chunks {
		chunkWords, err := loadFile(chunk.Filename, FormatChunk)
		if err != nil {
			return nil, err
		}
		words = append(words, chunkWords...)
	}
	for _, file := range texts {
		textWords, err := loadFile(file, FormatText)
		if err != nil {
			return nil, err
		}
		words = append(words, textWords...)
	}

	if len(words) == 0 {
		return nil, errors.Wrapf(ErrEmptyDictionary, "no words found in %s", dir)
	}
	log.Debugf("Loaded %d words from %d chunk and %d text files in %s", len(words), len(chunks), len(texts), dir)
	return words, nil
}

func loadFile(path string, format FileFormat) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open dictionary %s", path)
	}
	defer file.Close()

	switch format {
	case FormatChunk:
		words, err := ReadChunk(bufio.NewReader(file))
		return words, errors.Wrapf(err, "failed to read chunk %s", path)
	case FormatText:
		words, err := ReadText(file)
		return words, errors.Wrapf(err, "failed to read word list %s", path)
	}
	return nil, errors.Wrapf(ErrUnknownFormat, "%s", path)
}

// ReadText reads one word per line. Lines are trimmed and lower-cased;
// blank lines are skipped.
func ReadText(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		w := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if w == "" {
			continue
		}
		words = append(words, w)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

// ReadChunk reads a binary chunk and returns its words by ascending rank.
func ReadChunk(r io.Reader) ([]string, error) {
	var totalEntries int32
	if err := binary.Read(r, binary.LittleEndian, &totalEntries); err != nil {
		return nil, errors.Wrap(err, "failed to read chunk header")
	}
	if totalEntries < 0 || totalEntries > maxChunkWords {
		return nil, errors.Newf("invalid word count %d", totalEntries)
	}

	entries := make([]rankedWord, 0, totalEntries)
	for count := 0; count < int(totalEntries); count++ {
		var wordLen uint16
		if err := binary.Read(r, binary.LittleEndian, &wordLen); err != nil {
			return nil, errors.Wrapf(err, "failed to read length of word %d", count)
		}

		wordBytes := make([]byte, wordLen)
		if _, err := io.ReadFull(r, wordBytes); err != nil {
			return nil, errors.Wrapf(err, "failed to read word %d", count)
		}

		var rank uint16
		if err := binary.Read(r, binary.LittleEndian, &rank); err != nil {
			return nil, errors.Wrapf(err, "failed to read rank of word %d", count)
		}

		w := strings.TrimSpace(string(wordBytes))
		if w == "" {
			continue
		}
		entries = append(entries, rankedWord{word: w, rank: rank})
	}

	// rank 1 is the most frequent word
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].rank < entries[j].rank
	})

	words := make([]string, len(entries))
	for i, e := range entries {
		words[i] = e.word
	}
	return words, nil
}

// WriteChunk writes words in the binary chunk format, ranked by position.
// Ranks saturate at the uint16 maximum.
func WriteChunk(w io.Writer, words []string) error {
	if len(words) > maxChunkWords {
		return errors.Newf("too many words for one chunk: %d", len(words))
	}
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, int32(len(words))); err != nil {
		return errors.Wrap(err, "failed to write chunk header")
	}

	ranks := utils.CreateRankList(len(words))
	for i, word := range words {
		if len(word) > math.MaxUint16 {
			return errors.Newf("word %d is too long (%d bytes)", i, len(word))
		}
		rank := ranks[i]
		if err := binary.Write(bw, binary.LittleEndian, uint16(len(word))); err != nil {
			return errors.Wrap(err, "failed to write word length")
		}
		if _, err := bw.WriteString(word); err != nil {
			return errors.Wrap(err, "failed to write word")
		}
		if err := binary.Write(bw, binary.LittleEndian, rank); err != nil {
			return errors.Wrap(err, "failed to write rank")
		}
	}
	return errors.Wrap(bw.Flush(), "failed to flush chunk")
}

// GetAvailableChunks scans dir for chunk files, sorted by id.
func GetAvailableChunks(dir string) ([]ChunkInfo, error) {
	pattern := filepath.Join(dir, "dict_*.bin")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan for chunk files")
	}

	var chunks []ChunkInfo
	for _, file := range files {
		// dict_0001.bin -> 1
		idStr := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(file), "dict_"), ".bin")
		chunkID, err := strconv.Atoi(idStr)
		if err != nil {
			log.Debugf("Skipping %s: not a numbered chunk", file)
			continue
		}
		wordCount, err := chunkWordCount(file)
		if err != nil {
			log.Warnf("Failed to get word count for chunk %s: %v", file, err)
			continue
		}
		chunks = append(chunks, ChunkInfo{
			ID:        chunkID,
			Filename:  file,
			WordCount: wordCount,
		})
	}

	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ID < chunks[j].ID
	})
	return chunks, nil
}

func chunkWordCount(filename string) (int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	var wordCount int32
	if err := binary.Read(file, binary.LittleEndian, &wordCount); err != nil {
		return 0, err
	}
	return int(wordCount), nil
}
