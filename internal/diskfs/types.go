package diskfs

// SerialNumber is a file's two-word identity. Word1 carries the
// SNDirectory/SNRand/SNNoLog flag bits in its high bits and, in its low 13
// bits, the high part of a monotonically increasing counter; Word2 carries
// the counter's low 16 bits.
type SerialNumber struct {
	Word1 uint16
	Word2 uint16
}

// IsDirectory reports whether the SNDirectory bit is set.
func (sn SerialNumber) IsDirectory() bool {
	return sn.Word1&SNDirectory != 0
}

// PageLabel is the 8-word metadata header stored in every sector, both
// on-disk and in the two wire image formats.
type PageLabel struct {
	NextRDA   uint16
	PrevRDA   uint16
	Unused    uint16
	NBytes    uint16
	FilePgNum uint16
	Version   uint16
	SN        SerialNumber
}

// Page is one sector: its header, label, and fixed-size data area. Header
// is the 2-word pair stored immediately ahead of the label in both wire
// image formats: word 0 is always zero, word 1 is the packed RDA of the
// page itself, letting a reader detect a page that landed at the wrong
// disk address.
type Page struct {
	Header [2]uint16
	Label  PageLabel
	Data   [PageDataSize]byte
}

// FileEntry identifies a file by the VDA of its leader page plus the serial
// number and version recorded in that leader page's own label, so a stale
// reference to a deleted-and-reused leader page can be detected.
type FileEntry struct {
	LeaderVDA uint16
	SN        SerialNumber
	Version   uint16
}

// Valid reports whether fe looks like it was ever populated.
func (fe FileEntry) Valid() bool {
	return fe.Version != 0 && fe.Version != VersionFree && fe.Version != VersionBad
}

// FilePosition locates a byte offset within a file as a page/offset pair,
// the cheap resumable cursor hint stored in a leader page.
type FilePosition struct {
	VDA    uint16
	PgNum  uint16
	Offset uint16
}

// OpenMode selects the access mode of an OpenFile cursor.
type OpenMode int

const (
	ModeRead OpenMode = iota
	ModeReadWrite
	ModeCreate
	ModeCreateReadWrite
)

// ReadOnly reports whether m never permits writes.
func (m OpenMode) ReadOnly() bool {
	return m == ModeRead
}

// Creates reports whether m may create a missing file.
func (m OpenMode) Creates() bool {
	return m == ModeCreate || m == ModeCreateReadWrite
}

// Truncates reports whether m truncates an existing file on open.
func (m OpenMode) Truncates() bool {
	return m == ModeCreate
}

// OpenFile is a cursor over one file's page chain. Once Err is non-nil every
// further Read/Write/Truncate call is a no-op that returns the same error,
// mirroring the source filesystem's checked-open contract.
type OpenFile struct {
	fe         FileEntry
	mode       OpenMode
	readOnly   bool
	skipLeader bool

	pageVDA  uint16
	page     Page
	pgNum    uint16
	pos      uint16
	eof      bool
	modified bool

	Err *Error
}

// DirectoryEntry is one record in a directory file's byte stream.
type DirectoryEntry struct {
	Type      uint16
	Length    uint16 // length of the whole entry, in words, including the header word
	FE        FileEntry
	Name      string
}

// FileInfo is the leader-page metadata surfaced to callers of getFileInfo
// and Stat.
type FileInfo struct {
	FE           FileEntry
	Name         string
	Created      int64
	Written      int64
	LastRead     int64
	Consecutive  bool
	ChangeSN     bool
	DirFPHint    FileEntry
	LastPageHint FilePosition
	PropBegin    uint16
	PropLen      uint16
	Length       uint32
	HasDiskGeometry bool
	DiskGeometry    Geometry
}
