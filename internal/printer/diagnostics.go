// This file decodes the fixed-format diagnostic telegrams ZPL printers
// answer with: ~HI identification, ~HS status, ^XA^HH^XZ configuration and
// ~HQES error/warning flags, plus the ~HQHA and ~HQSN one-liners.
package printer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Diagnostic query commands.
const (
	cmdIdentification = "~HI"
	cmdStatus         = "~HS"
	cmdConfiguration  = "^XA^HH^XZ"
	cmdHealth         = "~HQES"
	cmdHardwareAddr   = "~HQHA"
	cmdSerialNumber   = "~HQSN"
	cmdHeadTest       = "~HQJT"
	cmdMaintenance    = "~HQMA"
	cmdPrintMeters    = "~HQOD"
)

var (
	identificationPattern = regexp.MustCompile(`\x02([^,]+),([^,]+),([^,]+),([^,]+)\x03`)
	hardwareAddrPattern   = regexp.MustCompile(`(?:[0-9a-fA-F]:?){12}`)
)

// Identification is the ~HI record. Fields are kept as the literal strings
// the printer sent; DPMM coerces the resolution when a number is needed.
type Identification struct {
	Model           string
	FirmwareVersion string
	DotsPerMM       string
	Memory          string
}

// DPMM returns the head resolution as a number of dots per millimeter.
func (i *Identification) DPMM() (int, error) {
	n, err := strconv.Atoi(i.DotsPerMM)
	if err != nil {
		return 0, fmt.Errorf("dpmm field %q: %w", i.DotsPerMM, ErrMalformedResponse)
	}
	return n, nil
}

// ParseIdentification decodes a ~HI telegram: one control-delimited line of
// exactly four comma-separated fields.
func ParseIdentification(raw []byte) (*Identification, error) {
	m := identificationPattern.FindStringSubmatch(strings.TrimSpace(string(raw)))
	if m == nil {
		return nil, fmt.Errorf("identification telegram %q: %w", raw, ErrMalformedResponse)
	}
	return &Identification{
		Model:           m[1],
		FirmwareVersion: m[2],
		DotsPerMM:       m[3],
		Memory:          m[4],
	}, nil
}

// Status is the ~HS record: three control-delimited lines with a fixed
// field count and order. Every field is kept as the literal string from the
// wire, preserving leading zeros; callers coerce when they need numbers.
type Status struct {
	// Line 1.
	Interface       string
	PaperOut        string
	Pause           string
	LabelLength     string // in dots
	FormatsInBuffer string
	BufferFull      string
	CommDiagMode    string
	PartialFormat   string
	CorruptRAM      string
	UnderTemp       string
	OverTemp        string

	// Line 2.
	FuncSettings        string
	HeadUp              string
	RibbonOut           string
	ThermalTransfer     string
	PrintMode           string
	PrintWidthMode      string
	LabelWaiting        string
	LabelsRemaining     string
	FormatWhilePrinting string
	GraphicsInMemory    string

	// Line 3.
	Password  string
	StaticRAM string
}

// telegramLine strips the STX/ETX frame from one telegram line and splits
// it into its comma-separated fields, checking the expected field count.
func telegramLine(line string, fields int) ([]string, error) {
	line = strings.TrimSpace(line)
	if len(line) < 2 || line[0] != STX || line[len(line)-1] != ETX {
		return nil, fmt.Errorf("telegram line %q not STX/ETX framed: %w", line, ErrMalformedResponse)
	}
	parts := strings.Split(line[1:len(line)-1], ",")
	if len(parts) != fields {
		return nil, fmt.Errorf("telegram line %q has %d fields, expecting %d: %w",
			line, len(parts), fields, ErrMalformedResponse)
	}
	return parts, nil
}

// ParseStatus decodes a ~HS telegram of exactly three lines.
func ParseStatus(raw []byte) (*Status, error) {
	lines := strings.Split(strings.TrimSpace(string(raw)), "\r\n")
	if len(lines) < 3 {
		return nil, fmt.Errorf("status telegram has %d lines, expecting 3: %w",
			len(lines), ErrMalformedResponse)
	}

	l1, err := telegramLine(lines[0], 12)
	if err != nil {
		return nil, err
	}
	// Field 9 of line 1 is reserved and always reads 000.
	if l1[8] != "000" {
		return nil, fmt.Errorf("status telegram reserved field is %q, expecting 000: %w",
			l1[8], ErrMalformedResponse)
	}
	l2, err := telegramLine(lines[1], 11)
	if err != nil {
		return nil, err
	}
	l3, err := telegramLine(lines[2], 2)
	if err != nil {
		return nil, err
	}

	return &Status{
		Interface:       l1[0],
		PaperOut:        l1[1],
		Pause:           l1[2],
		LabelLength:     l1[3],
		FormatsInBuffer: l1[4],
		BufferFull:      l1[5],
		CommDiagMode:    l1[6],
		PartialFormat:   l1[7],
		// l1[8] is reserved
		CorruptRAM: l1[9],
		UnderTemp:  l1[10],
		OverTemp:   l1[11],

		FuncSettings: l2[0],
		// l2[1] is unused
		HeadUp:              l2[2],
		RibbonOut:           l2[3],
		ThermalTransfer:     l2[4],
		PrintMode:           l2[5],
		PrintWidthMode:      l2[6],
		LabelWaiting:        l2[7],
		LabelsRemaining:     l2[8],
		FormatWhilePrinting: l2[9],
		GraphicsInMemory:    l2[10],

		Password:  l3[0],
		StaticRAM: l3[1],
	}, nil
}

// ConfigSplitter splits one configuration dump line into its value and
// setting name. It is a named strategy so the default heuristic can be
// replaced by a stricter column-based parser without touching the rest of
// the parser.
type ConfigSplitter func(line string) (value, name string)

// SplitAtLongestSpaceRun is the default ConfigSplitter: the line is split
// at its longest run of consecutive spaces, the left part is the value and
// the right part the setting name. Inherently ambiguous for values that
// contain multi-space runs themselves; preserved as-is for compatibility.
func SplitAtLongestSpaceRun(line string) (string, string) {
	i, j := 0, 0
	for k := 1; j >= 0; k++ {
		i = j
		pos := strings.Index(line[j:], strings.Repeat(" ", k))
		if pos < 0 {
			j = -1
		} else {
			j += pos
		}
	}
	return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i:])
}

// ParseConfiguration decodes a ^XA^HH^XZ configuration dump into a
// setting-name to value map using the given splitter, or
// SplitAtLongestSpaceRun when nil.
func ParseConfiguration(raw []byte, split ConfigSplitter) (map[string]string, error) {
	if split == nil {
		split = SplitAtLongestSpaceRun
	}
	text := strings.Trim(string(raw), "\x02\x03 \t\n\r")
	if text == "" {
		return nil, fmt.Errorf("empty configuration telegram: %w", ErrMalformedResponse)
	}

	cfg := make(map[string]string)
	for _, line := range strings.Split(text, "\r\n") {
		// Lines are trimmed on both ends before splitting: a leading space
		// run would otherwise win the longest-run search and swallow the
		// value into the setting name.
		line = strings.TrimSpace(strings.Trim(line, "\x02\x03"))
		if line == "" {
			continue
		}
		value, name := split(line)
		cfg[name] = value
	}
	return cfg, nil
}

// HealthReport is the decoded ~HQES record: the raw error/warning flags
// plus the named conditions for every set bit.
type HealthReport struct {
	ErrorFlag   string // "1" when any error is present
	Errors      []string
	WarningFlag string // "1" when any warning is present
	Warnings    []string
}

// A flag condition is identified by the nibble offset within the 8-digit
// flag group and the bit within that nibble. The bits are independent: a
// printer can report several conditions in one nibble at once.
type flagCondition struct {
	nibble    int
	bit       uint8
	condition string
}

var errorConditions = []flagCondition{
	{3, 1, "Paused"},
	{3, 2, "Retract Function timed out"},
	{3, 4, "Black Mark Calibrate Error"},
	{3, 8, "Black Mark not Found"},
	{4, 1, "Paper Jam during Retract"},
	{4, 2, "Presenter Not Running"},
	{4, 4, "Paper Feed Error"},
	{4, 8, "Clear Paper Path Failed"},
	{5, 1, "Invalid Firmware Configuration"},
	{5, 2, "Printhead Thermistor Open"},
	{6, 1, "Printhead Over Temperature"},
	{6, 2, "Motor Over Temperature"},
	{6, 4, "Bad Printhead Element"},
	{6, 8, "Printhead Detection Error"},
	{7, 1, "Media Out"},
	{7, 2, "Ribbon Out"},
	{7, 4, "Head Open"},
	{7, 8, "Cutter Fault"},
}

var warningConditions = []flagCondition{
	{5, 1, "Sensor 5 (presenter)"},
	{5, 2, "Sensor 6 (retract ready)"},
	{5, 4, "Sensor 7 (in retract)"},
	{5, 8, "Sensor 8 (at bin)"},
	{6, 1, "Sensor 1 (Paper before head)"},
	{6, 2, "Sensor 2 (Black mark)"},
	{6, 4, "Sensor 3 (Paper after head)"},
	{6, 8, "Sensor 4 (loop ready)"},
	{7, 1, "Need to Calibrate Media"},
	{7, 2, "Clean Printhead"},
	{7, 4, "Replace Printhead"},
	{7, 8, "Paper-near-end Sensor"},
}

func decodeConditions(group string, conditions []flagCondition) ([]string, error) {
	var set []string
	for _, c := range conditions {
		if c.nibble >= len(group) {
			return nil, fmt.Errorf("flag group %q too short: %w", group, ErrMalformedResponse)
		}
		nibble, err := strconv.ParseUint(group[c.nibble:c.nibble+1], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("flag group %q: %w", group, ErrMalformedResponse)
		}
		if uint8(nibble)&c.bit != 0 {
			set = append(set, c.condition)
		}
	}
	return set, nil
}

// healthLine extracts the flag and second flag group from one ~HQES line:
// the last 19 characters hold "<flag> <group1> <group2>".
func healthLine(line string) (flag, group1, group2 string, err error) {
	line = strings.TrimSpace(line)
	if len(line) < 19 {
		return "", "", "", fmt.Errorf("health line %q too short: %w", line, ErrMalformedResponse)
	}
	fields := strings.Fields(line[len(line)-19:])
	if len(fields) != 3 {
		return "", "", "", fmt.Errorf("health line %q has %d fields, expecting 3: %w",
			line, len(fields), ErrMalformedResponse)
	}
	return fields[0], fields[1], fields[2], nil
}

// ParseHealth decodes a ~HQES telegram. Error conditions live in the second
// flag group of the errors line, warnings in the first group of the
// warnings line. Unlike the if/elif decoding this replaces, every set bit
// is reported, not just the lowest one per nibble.
func ParseHealth(raw []byte) (*HealthReport, error) {
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) < 5 {
		return nil, fmt.Errorf("health telegram has %d lines, expecting 5: %w",
			len(lines), ErrMalformedResponse)
	}

	errorFlag, _, errorGroup, err := healthLine(lines[3])
	if err != nil {
		return nil, err
	}
	warningFlag, warningGroup, _, err := healthLine(lines[4])
	if err != nil {
		return nil, err
	}

	report := &HealthReport{ErrorFlag: errorFlag, WarningFlag: warningFlag}
	if report.Errors, err = decodeConditions(errorGroup, errorConditions); err != nil {
		return nil, err
	}
	if report.Warnings, err = decodeConditions(warningGroup, warningConditions); err != nil {
		return nil, err
	}
	return report, nil
}

// Diagnostics runs diagnostic queries over a Connection and caches one
// record per query type. A reload forces a re-query and replaces the cached
// record; after a failed reload the previous record stays cached, and it is
// the caller's decision whether stale data is acceptable.
type Diagnostics struct {
	conn Connection

	// Split is the configuration line splitting strategy; nil means
	// SplitAtLongestSpaceRun.
	Split ConfigSplitter

	identification *Identification
	status         *Status
	configuration  map[string]string
	health         *HealthReport
}

func NewDiagnostics(conn Connection) *Diagnostics {
	return &Diagnostics{conn: conn}
}

// Identification returns the cached ~HI record, querying on first use or
// when reload is set.
func (d *Diagnostics) Identification(reload bool) (*Identification, error) {
	if d.identification != nil && !reload {
		return d.identification, nil
	}
	raw, err := d.conn.Query(cmdIdentification)
	if err != nil {
		return nil, err
	}
	ident, err := ParseIdentification(raw)
	if err != nil {
		return nil, err
	}
	d.identification = ident
	return ident, nil
}

// Status returns the cached ~HS record, querying on first use or when
// reload is set.
func (d *Diagnostics) Status(reload bool) (*Status, error) {
	if d.status != nil && !reload {
		return d.status, nil
	}
	raw, err := d.conn.Query(cmdStatus)
	if err != nil {
		return nil, err
	}
	status, err := ParseStatus(raw)
	if err != nil {
		return nil, err
	}
	d.status = status
	return status, nil
}

// Configuration returns the cached configuration dump, querying on first
// use or when reload is set.
func (d *Diagnostics) Configuration(reload bool) (map[string]string, error) {
	if d.configuration != nil && !reload {
		return d.configuration, nil
	}
	raw, err := d.conn.Query(cmdConfiguration)
	if err != nil {
		return nil, err
	}
	cfg, err := ParseConfiguration(raw, d.Split)
	if err != nil {
		return nil, err
	}
	d.configuration = cfg
	return cfg, nil
}

// Health returns the cached ~HQES record, querying on first use or when
// reload is set.
func (d *Diagnostics) Health(reload bool) (*HealthReport, error) {
	if d.health != nil && !reload {
		return d.health, nil
	}
	raw, err := d.conn.Query(cmdHealth)
	if err != nil {
		return nil, err
	}
	health, err := ParseHealth(raw)
	if err != nil {
		return nil, err
	}
	d.health = health
	return health, nil
}

// HardwareAddress queries the printer's MAC address (~HQHA). Not cached:
// the query is cheap and rarely used.
func (d *Diagnostics) HardwareAddress() (string, error) {
	raw, err := d.conn.Query(cmdHardwareAddr)
	if err != nil {
		return "", err
	}
	m := hardwareAddrPattern.FindString(strings.TrimSpace(string(raw)))
	if m == "" {
		return "", fmt.Errorf("hardware address telegram %q: %w", raw, ErrMalformedResponse)
	}
	return m, nil
}

// rawQuery runs a passthrough query and returns the telegram text with the
// frame and surrounding whitespace stripped.
func (d *Diagnostics) rawQuery(command string) (string, error) {
	raw, err := d.conn.Query(command)
	if err != nil {
		return "", err
	}
	return strings.Trim(string(raw), "\x02\x03 \t\n\r"), nil
}

// HeadTest queries the printhead test result (~HQJT). The text is passed
// through as the printer formats it.
func (d *Diagnostics) HeadTest() (string, error) {
	return d.rawQuery(cmdHeadTest)
}

// MaintenanceSettings queries the current maintenance alert settings (~HQMA).
func (d *Diagnostics) MaintenanceSettings() (string, error) {
	return d.rawQuery(cmdMaintenance)
}

// PrintMeters queries the odometer print meters (~HQOD).
func (d *Diagnostics) PrintMeters() (string, error) {
	return d.rawQuery(cmdPrintMeters)
}

// SerialNumber queries the printer's serial number (~HQSN).
func (d *Diagnostics) SerialNumber() (string, error) {
	raw, err := d.conn.Query(cmdSerialNumber)
	if err != nil {
		return "", err
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) < 4 {
		return "", fmt.Errorf("serial number telegram %q: %w", raw, ErrMalformedResponse)
	}
	return strings.TrimSpace(lines[3]), nil
}

// DPMM returns the head resolution from the cached identification record.
func (d *Diagnostics) DPMM() (int, error) {
	ident, err := d.Identification(false)
	if err != nil {
		return 0, err
	}
	return ident.DPMM()
}

// DPI returns the head resolution in dots per inch.
func (d *Diagnostics) DPI() (int, error) {
	dpmm, err := d.DPMM()
	if err != nil {
		return 0, err
	}
	return dpmm * 25, nil
}

// LabelLength returns the configured label length in millimeters, combining
// the cached status and identification records.
func (d *Diagnostics) LabelLength() (int, error) {
	status, err := d.Status(false)
	if err != nil {
		return 0, err
	}
	dots, err := strconv.Atoi(status.LabelLength)
	if err != nil {
		return 0, fmt.Errorf("label length field %q: %w", status.LabelLength, ErrMalformedResponse)
	}
	dpmm, err := d.DPMM()
	if err != nil {
		return 0, err
	}
	return dots / dpmm, nil
}
