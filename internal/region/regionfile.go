package region

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zlib"
)

const sectorSize = 4096

// entryHeader is one (offset, length) pair from a region file's 8 KiB
// header, consumed not produced (§6).
type entryHeader struct {
	sectorOffset uint32 // in units of 4 KiB sectors
	sectorCount  uint8
}

// readRegionHeader reads the 1024 (offset,length) entries at the head
// of a region file. entries are indexed by Mod32(chunkX) + 32*Mod32(chunkZ).
func readRegionHeader(r io.Reader) ([1024]entryHeader, error) {
	var header [1024]entryHeader
	buf := make([]byte, sectorSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return header, fmt.Errorf("read region header: %w", err)
	}
	for i := 0; i < 1024; i++ {
		off := i * 4
		v := uint32(buf[off])<<16 | uint32(buf[off+1])<<8 | uint32(buf[off+2])
		header[i] = entryHeader{sectorOffset: v, sectorCount: buf[off+3]}
	}
	return header, nil
}

// regionPath returns the on-disk path of the region file containing
// the given chunk coordinate, following the vanilla "r.X.Z.mca" naming.
func regionPath(worldDir string, chunkX, chunkZ int) string {
	rx := RegionCoord(chunkX)
	rz := RegionCoord(chunkZ)
	return filepath.Join(worldDir, "region", fmt.Sprintf("r.%d.%d.mca", rx, rz))
}

// loadChunkBytes reads and decompresses the raw NBT payload for a
// single chunk out of its region file. A missing region file or a
// chunk never written within it returns (nil, nil): per §4.2's
// failure model, both report as "no data," not an error — callers
// treat that as all-air.
func loadChunkBytes(worldDir string, chunkX, chunkZ int) ([]byte, error) {
	path := regionPath(worldDir, chunkX, chunkZ)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open region file %s: %w", path, err)
	}
	defer f.Close()

	header, err := readRegionHeader(f)
	if err != nil {
		return nil, err
	}

	idx := Mod32(chunkX) + 32*Mod32(chunkZ)
	entry := header[idx]
	if entry.sectorOffset == 0 && entry.sectorCount == 0 {
		return nil, nil
	}

	if _, err := f.Seek(int64(entry.sectorOffset)*sectorSize, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek chunk data: %w", err)
	}

	var lengthAndTag [5]byte
	if _, err := io.ReadFull(f, lengthAndTag[:]); err != nil {
		return nil, fmt.Errorf("read chunk payload header: %w", err)
	}
	length := binary.BigEndian.Uint32(lengthAndTag[:4])
	if length == 0 {
		return nil, nil
	}
	// lengthAndTag[4] is the compression type byte; per §6 it is
	// treated as zlib regardless of its value.
	compressed := make([]byte, length-1)
	if _, err := io.ReadFull(f, compressed); err != nil {
		return nil, fmt.Errorf("read chunk payload: %w", err)
	}

	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("open zlib stream: %w", err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("inflate chunk: %w", err)
	}
	return raw, nil
}
