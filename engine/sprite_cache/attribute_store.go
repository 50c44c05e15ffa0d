package sprite_cache

import "github.com/Carmen-Shannon/oxy2d/common"

// attributeStore holds the packed static and dynamic records of every live sprite.
// Slots [0, count) are live and gap free; slot order is draw order.
type attributeStore struct {
	static   []float32
	dynamic  []uint32
	count    int
	capacity int
}

func newAttributeStore(capacity int) *attributeStore {
	capacity = max(capacity, 1)
	return &attributeStore{
		static:   make([]float32, capacity*staticStride),
		dynamic:  make([]uint32, capacity*dynamicStride),
		capacity: capacity,
	}
}

// insert opens a zeroed record at slot, shifting slots at and above it up by one.
// It reports whether the backing arrays had to grow.
func (s *attributeStore) insert(slot int) bool {
	grew := false
	if s.count+1 > s.capacity {
		s.grow(max(s.capacity*2, 8))
		grew = true
	}

	if slot < s.count {
		copy(s.static[(slot+1)*staticStride:(s.count+1)*staticStride], s.static[slot*staticStride:s.count*staticStride])
		copy(s.dynamic[(slot+1)*dynamicStride:(s.count+1)*dynamicStride], s.dynamic[slot*dynamicStride:s.count*dynamicStride])
	}
	clear(s.staticRecord(slot))
	clear(s.dynamicRecord(slot))
	s.count++
	return grew
}

// removeAt closes the gap left by slot. Removing the last slot does not move anything.
func (s *attributeStore) removeAt(slot int) {
	last := s.count - 1
	if slot < last {
		copy(s.static[slot*staticStride:last*staticStride], s.static[(slot+1)*staticStride:s.count*staticStride])
		copy(s.dynamic[slot*dynamicStride:last*dynamicStride], s.dynamic[(slot+1)*dynamicStride:s.count*dynamicStride])
	}
	clear(s.staticRecord(last))
	clear(s.dynamicRecord(last))
	s.count--
}

// grow reallocates both arrays to newCap records and copies the live records over.
func (s *attributeStore) grow(newCap int) {
	if newCap <= s.capacity {
		return
	}
	static := make([]float32, newCap*staticStride)
	dynamic := make([]uint32, newCap*dynamicStride)
	copy(static, s.static[:s.count*staticStride])
	copy(dynamic, s.dynamic[:s.count*dynamicStride])

	common.Logger().Debug("sprite_cache: attribute store grew", "from", s.capacity, "to", newCap)
	s.static = static
	s.dynamic = dynamic
	s.capacity = newCap
}

func (s *attributeStore) staticRecord(slot int) []float32 {
	return s.static[slot*staticStride : (slot+1)*staticStride : (slot+1)*staticStride]
}

func (s *attributeStore) dynamicRecord(slot int) []uint32 {
	return s.dynamic[slot*dynamicStride : (slot+1)*dynamicStride : (slot+1)*dynamicStride]
}

func (s *attributeStore) readStatic(slot int, out *[staticStride]float32) {
	copy(out[:], s.staticRecord(slot))
}

func (s *attributeStore) readDynamic(slot int, out *[dynamicStride]uint32) {
	copy(out[:], s.dynamicRecord(slot))
}

func (s *attributeStore) writeStatic(slot int, in *[staticStride]float32) {
	copy(s.staticRecord(slot), in[:])
}

func (s *attributeStore) writeDynamic(slot int, in *[dynamicStride]uint32) {
	copy(s.dynamicRecord(slot), in[:])
}

func (s *attributeStore) textureIndexAt(slot int) int {
	idx, _ := unpackTexture(s.dynamic[slot*dynamicStride+offPacked])
	return idx
}

// staticBytes returns the live static records as bytes for upload.
func (s *attributeStore) staticBytes() []byte {
	return common.SliceToBytes(s.static[:s.count*staticStride])
}

// dynamicBytes returns the live dynamic records as bytes for upload.
func (s *attributeStore) dynamicBytes() []byte {
	return common.SliceToBytes(s.dynamic[:s.count*dynamicStride])
}

// capacityBytes returns the byte sizes the GPU mirrors need to hold every record up to capacity.
func (s *attributeStore) capacityBytes() (uint64, uint64) {
	return uint64(s.capacity * StaticRecordSize), uint64(s.capacity * DynamicRecordSize)
}

func (s *attributeStore) reset() {
	clear(s.static[:s.count*staticStride])
	clear(s.dynamic[:s.count*dynamicStride])
	s.count = 0
}

func (s *attributeStore) release() {
	s.static = nil
	s.dynamic = nil
	s.count = 0
	s.capacity = 0
}
