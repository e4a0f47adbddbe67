package classifier

import "regexp"

var (
	urlSchemes = []string{"http://", "https://", "ftp://"}

	bareDomainPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{1,61}[a-zA-Z0-9]\.[a-zA-Z]{2,}`)

	ipv4Pattern = regexp.MustCompile(`^(?:(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)$`)

	ipv6Pattern = regexp.MustCompile(`^(` +
		`([0-9a-fA-F]{1,4}:){7}[0-9a-fA-F]{1,4}|` +
		`([0-9a-fA-F]{1,4}:){1,7}:|` +
		`([0-9a-fA-F]{1,4}:){1,6}:[0-9a-fA-F]{1,4}|` +
		`([0-9a-fA-F]{1,4}:){1,5}(:[0-9a-fA-F]{1,4}){1,2}|` +
		`([0-9a-fA-F]{1,4}:){1,4}(:[0-9a-fA-F]{1,4}){1,3}|` +
		`([0-9a-fA-F]{1,4}:){1,3}(:[0-9a-fA-F]{1,4}){1,4}|` +
		`([0-9a-fA-F]{1,4}:){1,2}(:[0-9a-fA-F]{1,4}){1,5}|` +
		`[0-9a-fA-F]{1,4}:((:[0-9a-fA-F]{1,4}){1,6})|` +
		`:((:[0-9a-fA-F]{1,4}){1,7}|:)|` +
		`fe80:(:[0-9a-fA-F]{0,4}){0,4}%[0-9a-zA-Z]+|` +
		`::(ffff(:0{1,4})?:)?((25[0-5]|(2[0-4]|1?[0-9])?[0-9])\.){3}(25[0-5]|(2[0-4]|1?[0-9])?[0-9])|` +
		`([0-9a-fA-F]{1,4}:){1,4}:((25[0-5]|(2[0-4]|1?[0-9])?[0-9])\.){3}(25[0-5]|(2[0-4]|1?[0-9])?[0-9])` +
		`)$`)

	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	rgbPattern = regexp.MustCompile(`^rgba?\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*(?:,\s*([\d.]+))?\s*\)$`)
	hslPattern = regexp.MustCompile(`^hsl\(\s*(\d{1,3})\s*,\s*(\d{1,3})%\s*,\s*(\d{1,3})%\s*\)$`)

	isoTimestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d{1,9})?(?:Z|[+-]\d{2}:\d{2})?$`)
	looseDatePattern    = regexp.MustCompile(`^\d{4}[-/]\d{2}[-/]\d{2}(?:\s+\d{2}:\d{2}(?::\d{2})?)?$`)
)

// commandPrefixes is matched in order against the start of the text.
// "ls" carries no trailing space so that bare "ls" and "ls -la" both match.
var commandPrefixes = []string{
	"git ", "npm ", "yarn ", "pnpm ", "docker ", "kubectl ", "cargo ", "python ", "pip ",
	"brew ", "apt ", "yum ", "ls", "cd ", "mkdir ", "rm ", "cp ", "mv ", "cat ", "grep ",
	"sed ", "awk ", "curl ", "wget ", "ssh ",
}

// Anchored patterns anchor to the start of the whole text, not each line.
var markdownPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^#{1,6}\s+`),    // heading
	regexp.MustCompile(`\*\*[^*]+\*\*`), // bold
	regexp.MustCompile(`\*[^*]+\*`),     // italic
	regexp.MustCompile(`\[.+\]\(.+\)`),  // link
	regexp.MustCompile(`!\[.*\]\(.+\)`), // image
	regexp.MustCompile(`^[-*+]\s+`),     // bullet list
	regexp.MustCompile(`^\d+\.\s+`),     // ordered list
	regexp.MustCompile(`^>\s+`),         // blockquote
	regexp.MustCompile("```"),           // fenced code
	regexp.MustCompile("`[^`\n]+`"),     // inline code
}

type languageSignature struct {
	language string
	pattern  *regexp.Regexp
}

// codeSignatures is evaluated in order; the first match names the language.
var codeSignatures = []languageSignature{
	{"javascript", regexp.MustCompile(`\bfunction\s*\w*\s*\(|\b(?:const|let|var)\s+\w+\s*=|=>|\basync\s+function\b|\bawait\s+\w|\bconsole\.log\(`)},
	{"python", regexp.MustCompile(`(?m)\bdef\s+\w+\s*\(|^\s*import\s+[\w.]+(?:\s+as\s+\w+)?(?:\s*,\s*[\w.]+)*\s*$|^\s*from\s+[\w.]+\s+import\s|\bclass\s+\w+\s*[:(]|if __name__|\bprint\(`)},
	{"rust", regexp.MustCompile(`\bfn\s+\w+\s*[<(]|\bimpl\b[^{\n]*\{|\bpub\s+(?:fn|struct|enum|mod|trait|use)\b|\blet\s+mut\b|\buse\s+\w+(?:::\w+)+|\bmatch\s+\w+\s*\{|\b(?:struct|enum)\s+\w+\s*\{|\btrait\s+\w+\s*\{`)},
	{"java", regexp.MustCompile(`\bpublic\s+(?:class|interface|static)\b|\bprivate\s+(?:static\s+|final\s+)*\w+(?:<[^>]*>)?\s+\w+\s*[;=(]|\bprotected\s+\w+|\bstatic\s+void\b|\bimport\s+java\.`)},
	{"c", regexp.MustCompile(`#include\s*[<"]|\bint\s+main\s*\(|\bprintf\s*\(|\bscanf\s*\(|\bvoid\s+\w+\s*\(`)},
	{"sql", regexp.MustCompile(`\bSELECT\b[\s\S]+\bFROM\b|\bINSERT\s+INTO\b|\bUPDATE\s+\w+\s+SET\b|\bDELETE\s+FROM\b|\bCREATE\s+TABLE\b`)},
	{"html", regexp.MustCompile(`(?i)<(?:html|div|span|body|head|script|style)\b`)},
	{"css", regexp.MustCompile(`(?m)^\s*[.#][\w-]+\s*\{|\b(?:color|background|margin|padding)\s*:\s*[^;\n]+;`)},
}

// Short strings spelled like these are words, not encodings.
var commonWords = wordSet(
	"the", "and", "for", "are", "but", "not", "you", "all", "can", "had", "her", "was",
	"one", "our", "out", "day", "get", "has", "him", "his", "how", "its", "may", "new",
	"now", "old", "see", "two", "who", "boy", "did", "man", "car", "run", "way", "use",
	"yes", "too", "big", "end", "far", "off", "own", "say", "she", "try", "ask", "job",
	"let", "put", "sit", "top", "win", "cut", "lot", "eat", "god", "hit", "son",
	"got", "red", "hot", "air", "bit", "box", "buy", "eye", "few", "fix", "key", "lay",
	"leg", "low", "map", "mix", "oil", "pay", "pop", "raw", "row", "sad", "sea", "set",
	"six", "sky", "tax", "tea", "ten", "tie", "tip", "war", "wet", "add", "bad", "bag",
	"bar", "bat", "bed", "bid", "bus", "cat", "cop", "cup", "die", "dig", "dog", "dot",
	"dry", "ear", "egg", "fan", "fly", "fun", "gap", "gas", "gun", "hat", "ice", "kid",
	"lab", "lap", "lie", "lip", "log", "mad", "mom", "mud", "net", "pan", "pen", "pet",
	"pie", "pin", "pot", "rat", "rid", "rip", "rob", "rod", "sun", "tap", "toy", "van",
	"web", "zip",
	"test", "hello", "world", "data", "text", "code", "user", "name", "file", "true", "false", "null",
)

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

type magicHint struct {
	prefix []byte
	hint   string
}

var base64Hints = []magicHint{
	{[]byte{0x89, 'P', 'N', 'G'}, "PNG image"},
	{[]byte{0xFF, 0xD8, 0xFF}, "JPEG image"},
	{[]byte("%PDF"), "PDF document"},
	{[]byte("GIF8"), "GIF image"},
	{[]byte{'P', 'K', 0x03, 0x04}, "ZIP archive"},
	{[]byte{'P', 'K', 0x05, 0x06}, "ZIP archive"},
}

const (
	base64ShortLimit     = 40
	base64LongLimit      = 100
	base64ShortRatio     = 1.0
	base64LongRatio      = 0.95
	base64CharsPerLine   = 50
	base64SmallDecoded   = 10
	base64SmallTolerance = 0.5
	base64Tolerance      = 0.2
	binaryZeroRatio      = 0.1
)

// Unix timestamp windows: seconds in [2000, 2100), milliseconds in [2000, 2200).
const (
	minUnixSeconds = 946684800
	maxUnixSeconds = 4102444800
	minUnixMillis  = 946684800000
	maxUnixMillis  = 7258118400000
)
