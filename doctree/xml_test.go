package doctree

import (
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
)

const sampleDoctree = `<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE document PUBLIC "+//IDN docutils.sourceforge.net//DTD Docutils Generic//EN//XML" "http://docutils.sourceforge.net/docs/ref/docutils.dtd">
<document source="index.rst">
    <section ids="intro" names="intro">
        <title>Intro</title>
        <paragraph>Hello <emphasis>big</emphasis> world</paragraph>
        <enumerated_list enumtype="arabic" prefix="" suffix=".">
            <list_item>
                <paragraph>one</paragraph>
            </list_item>
        </enumerated_list>
        <fancy_widget/>
    </section>
</document>
`

func TestReadXML(t *testing.T) {
	root, doc, err := ReadXML(strings.NewReader(sampleDoctree), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("ReadXML() error = %v", err)
	}
	if doc == nil {
		t.Fatal("ReadXML() returned nil etree document")
	}
	if root.Kind != KindDocument {
		t.Fatalf("root kind = %v, want document", root.Kind)
	}
	if len(root.Children) != 1 {
		t.Fatalf("root children = %d, want 1 (whitespace must be dropped)", len(root.Children))
	}

	sec := root.Children[0]
	if sec.Kind != KindSection {
		t.Fatalf("child kind = %v, want section", sec.Kind)
	}
	if v, _ := sec.Attr("ids"); v != "intro" {
		t.Errorf("section ids = %q, want %q", v, "intro")
	}

	kinds := make([]Kind, 0, len(sec.Children))
	for _, c := range sec.Children {
		kinds = append(kinds, c.Kind)
	}
	want := []Kind{KindTitle, KindParagraph, KindEnumeratedList, KindUnknown}
	if len(kinds) != len(want) {
		t.Fatalf("section children = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("section child[%d] = %v, want %v", i, kinds[i], want[i])
		}
	}
	if sec.Children[3].Name != "fancy_widget" {
		t.Errorf("unknown element name = %q, want fancy_widget", sec.Children[3].Name)
	}

	para := sec.Children[1]
	if got := para.AsText(); got != "Hello big world" {
		t.Errorf("paragraph text = %q, want %q", got, "Hello big world")
	}
	if len(para.Children) != 3 {
		t.Errorf("paragraph children = %d, want 3", len(para.Children))
	}

	list := sec.Children[2]
	if got := list.AttrOr("suffix", "?"); got != "." {
		t.Errorf("enumerated_list suffix = %q, want %q", got, ".")
	}
	if got := list.AttrOr("start", "1"); got != "1" {
		t.Errorf("enumerated_list start default = %q, want %q", got, "1")
	}
}

func TestReadXML_Charset(t *testing.T) {
	src := "<?xml version=\"1.0\" encoding=\"windows-1251\"?>\n<document><paragraph>\xcf\xf0\xe8\xe2\xe5\xf2</paragraph></document>"
	root, _, err := ReadXML(strings.NewReader(src), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("ReadXML() error = %v", err)
	}
	if got := root.AsText(); got != "Привет" {
		t.Errorf("text = %q, want %q", got, "Привет")
	}
}

func TestReadXML_Errors(t *testing.T) {
	if _, _, err := ReadXML(strings.NewReader(""), zaptest.NewLogger(t)); err == nil {
		t.Error("ReadXML() on empty input expected error")
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		name string
		want Kind
	}{
		{"document", KindDocument},
		{"#text", KindText},
		{"literal_emphasis", KindLiteralEmphasis},
		{"seealso", KindSeeAlso},
		{"start_of_file", KindStartOfFile},
		{"no_such_thing", KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseKind(tt.name); got != tt.want {
				t.Errorf("ParseKind(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestKindNamesComplete(t *testing.T) {
	seen := make(map[string]Kind)
	for k := range KindCount {
		name := k.String()
		if name == "" {
			t.Errorf("Kind(%d) has no name", int(k))
			continue
		}
		if prev, ok := seen[name]; ok {
			t.Errorf("Kind(%d) and Kind(%d) share name %q", int(prev), int(k), name)
		}
		seen[name] = k
		if ParseKind(name) != k {
			t.Errorf("ParseKind(%q) does not round trip", name)
		}
	}
}

func TestNodeString(t *testing.T) {
	n := NewElement(KindParagraph, NewText("hi")).WithAttr("b", "2").WithAttr("a", "1")
	want := "paragraph [a=1 b=2]\n  text: \"hi\"\n"
	if got := n.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
