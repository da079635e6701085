package doctree

import "fmt"

// Kind identifies node type of the content tree. Names follow docutils and
// Sphinx element names.
type Kind int

const (
	KindUnknown Kind = iota

	// structure
	KindDocument
	KindStartOfFile
	KindSection
	KindTitle
	KindSubtitle
	KindParagraph
	KindText
	KindCompound
	KindContainer
	KindGlossary
	KindCentered
	KindHList
	KindHListCol
	KindCompactParagraph

	// inline
	KindEmphasis
	KindStrong
	KindLiteral
	KindLiteralEmphasis
	KindLiteralStrong
	KindSubscript
	KindSuperscript
	KindTitleReference
	KindAbbreviation
	KindProblematic
	KindReference
	KindPendingXref
	KindDownloadReference
	KindInline
	KindGenerated
	KindSubstitutionReference

	// lists
	KindBulletList
	KindEnumeratedList
	KindListItem
	KindDefinitionList
	KindDefinitionListItem
	KindTerm
	KindClassifier
	KindDefinition
	KindFieldList
	KindField
	KindFieldName
	KindFieldBody
	KindOptionList
	KindOptionListItem
	KindOptionGroup
	KindOption
	KindOptionString
	KindOptionArgument
	KindDescription

	// blocks
	KindBlockQuote
	KindLineBlock
	KindLine
	KindLiteralBlock
	KindDoctestBlock
	KindFigure
	KindCaption
	KindLegend
	KindImage

	// tables
	KindTable
	KindTGroup
	KindColSpec
	KindTHead
	KindTBody
	KindRow
	KindEntry
	KindTabularColSpec

	// admonitions
	KindAdmonition
	KindAttention
	KindCaution
	KindDanger
	KindError
	KindHint
	KindImportant
	KindNote
	KindTip
	KindWarning
	KindSeeAlso

	// descriptions
	KindDesc
	KindDescSignature
	KindDescName
	KindDescAddName
	KindDescType
	KindDescReturns
	KindDescParameterList
	KindDescParameter
	KindDescOptional
	KindDescAnnotation
	KindDescContent
	KindRefCount
	KindVersionModified
	KindProductionList

	// ignored
	KindRaw
	KindComment
	KindMeta
	KindTarget
	KindIndex
	KindFootnote
	KindCitation
	KindLabel
	KindFootnoteReference
	KindCitationReference
	KindHighlightLang
	KindRubric
	KindTopic
	KindSidebar
	KindAttribution
	KindTransition
	KindAcks
	KindSubstitutionDefinition
	KindSystemMessage
	KindTocTree

	// KindCount is the number of known kinds, it must stay last.
	KindCount
)

var kindNames = [KindCount]string{
	KindUnknown:                "unknown",
	KindDocument:               "document",
	KindStartOfFile:            "start_of_file",
	KindSection:                "section",
	KindTitle:                  "title",
	KindSubtitle:               "subtitle",
	KindParagraph:              "paragraph",
	KindText:                   "#text",
	KindCompound:               "compound",
	KindContainer:              "container",
	KindGlossary:               "glossary",
	KindCentered:               "centered",
	KindHList:                  "hlist",
	KindHListCol:               "hlistcol",
	KindCompactParagraph:       "compact_paragraph",
	KindEmphasis:               "emphasis",
	KindStrong:                 "strong",
	KindLiteral:                "literal",
	KindLiteralEmphasis:        "literal_emphasis",
	KindLiteralStrong:          "literal_strong",
	KindSubscript:              "subscript",
	KindSuperscript:            "superscript",
	KindTitleReference:         "title_reference",
	KindAbbreviation:           "abbreviation",
	KindProblematic:            "problematic",
	KindReference:              "reference",
	KindPendingXref:            "pending_xref",
	KindDownloadReference:      "download_reference",
	KindInline:                 "inline",
	KindGenerated:              "generated",
	KindSubstitutionReference:  "substitution_reference",
	KindBulletList:             "bullet_list",
	KindEnumeratedList:         "enumerated_list",
	KindListItem:               "list_item",
	KindDefinitionList:         "definition_list",
	KindDefinitionListItem:     "definition_list_item",
	KindTerm:                   "term",
	KindClassifier:             "classifier",
	KindDefinition:             "definition",
	KindFieldList:              "field_list",
	KindField:                  "field",
	KindFieldName:              "field_name",
	KindFieldBody:              "field_body",
	KindOptionList:             "option_list",
	KindOptionListItem:         "option_list_item",
	KindOptionGroup:            "option_group",
	KindOption:                 "option",
	KindOptionString:           "option_string",
	KindOptionArgument:         "option_argument",
	KindDescription:            "description",
	KindBlockQuote:             "block_quote",
	KindLineBlock:              "line_block",
	KindLine:                   "line",
	KindLiteralBlock:           "literal_block",
	KindDoctestBlock:           "doctest_block",
	KindFigure:                 "figure",
	KindCaption:                "caption",
	KindLegend:                 "legend",
	KindImage:                  "image",
	KindTable:                  "table",
	KindTGroup:                 "tgroup",
	KindColSpec:                "colspec",
	KindTHead:                  "thead",
	KindTBody:                  "tbody",
	KindRow:                    "row",
	KindEntry:                  "entry",
	KindTabularColSpec:         "tabular_col_spec",
	KindAdmonition:             "admonition",
	KindAttention:              "attention",
	KindCaution:                "caution",
	KindDanger:                 "danger",
	KindError:                  "error",
	KindHint:                   "hint",
	KindImportant:              "important",
	KindNote:                   "note",
	KindTip:                    "tip",
	KindWarning:                "warning",
	KindSeeAlso:                "seealso",
	KindDesc:                   "desc",
	KindDescSignature:          "desc_signature",
	KindDescName:               "desc_name",
	KindDescAddName:            "desc_addname",
	KindDescType:               "desc_type",
	KindDescReturns:            "desc_returns",
	KindDescParameterList:      "desc_parameterlist",
	KindDescParameter:          "desc_parameter",
	KindDescOptional:           "desc_optional",
	KindDescAnnotation:         "desc_annotation",
	KindDescContent:            "desc_content",
	KindRefCount:               "refcount",
	KindVersionModified:        "versionmodified",
	KindProductionList:         "productionlist",
	KindRaw:                    "raw",
	KindComment:                "comment",
	KindMeta:                   "meta",
	KindTarget:                 "target",
	KindIndex:                  "index",
	KindFootnote:               "footnote",
	KindCitation:               "citation",
	KindLabel:                  "label",
	KindFootnoteReference:      "footnote_reference",
	KindCitationReference:      "citation_reference",
	KindHighlightLang:          "highlightlang",
	KindRubric:                 "rubric",
	KindTopic:                  "topic",
	KindSidebar:                "sidebar",
	KindAttribution:            "attribution",
	KindTransition:             "transition",
	KindAcks:                   "acks",
	KindSubstitutionDefinition: "substitution_definition",
	KindSystemMessage:          "system_message",
	KindTocTree:                "toctree",
}

var kindValues = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		m[name] = Kind(k)
	}
	return m
}()

// String implements the Stringer interface.
func (k Kind) String() string {
	if k >= 0 && k < KindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsValid reports whether k belongs to the enumeration.
func (k Kind) IsValid() bool {
	return k >= 0 && k < KindCount
}

// ParseKind maps element name to Kind. Unrecognized names produce
// KindUnknown, which is never an error: such nodes are skipped by consumers.
func ParseKind(name string) Kind {
	if k, ok := kindValues[name]; ok {
		return k
	}
	return KindUnknown
}

// IsAdmonition reports whether k is one of the labeled admonition kinds.
func (k Kind) IsAdmonition() bool {
	return k >= KindAttention && k <= KindWarning
}
