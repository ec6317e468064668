package xmlpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNamespaced_ValueAt(t *testing.T) {
	root, err := ParseNamespaced(loadFixture(t))
	require.NoError(t, err)
	assert.Equal(t, "{"+SOAPEnvelopeNamespace+"}Envelope", root.Tag())

	match := SOAPAliases.Matcher()
	result := Path{"soapenv:Body", "default:convertLeadResponse", "default:result"}

	value, found := ValueAt(root, under(result, "default:errors", "default:statusCode"), match)
	assert.True(t, found)
	assert.Equal(t, "DUPLICATES_DETECTED", value)

	value, found = ValueAt(root, under(result, "default:success"), match)
	assert.True(t, found)
	assert.Equal(t, "false", value)

	// Partner elements live in the default namespace, so an unaliased step misses.
	_, found = ValueAt(root, under(result, "success"), match)
	assert.False(t, found)

	_, found = ValueAt(root, Path{"unknown:Body"}, match)
	assert.False(t, found)

	_, found = ValueAt(root, under(result, "default:contactId"), match)
	assert.False(t, found)
}

func TestParseNamespaced_Errors(t *testing.T) {
	_, err := ParseNamespaced([]byte(`<a><b></a>`))
	assert.Error(t, err)

	_, err = ParseNamespaced([]byte(`<a>`))
	assert.Error(t, err)

	_, err = ParseNamespaced([]byte(`   `))
	assert.ErrorIs(t, err, ErrNoRootElement)
}

func TestBackendsAgree(t *testing.T) {
	data := loadFixture(t)
	doc, err := ParseDocument(data)
	require.NoError(t, err)
	nsRoot, err := ParseNamespaced(data)
	require.NoError(t, err)

	match := SOAPAliases.Matcher()
	pairs := []struct {
		literal   Path
		qualified Path
	}{
		{
			literal:   Path{"soapenv:Body", "convertLeadResponse", "result", "success"},
			qualified: Path{"soapenv:Body", "default:convertLeadResponse", "default:result", "default:success"},
		},
		{
			literal:   Path{"soapenv:Body", "convertLeadResponse", "result", "errors", "statusCode"},
			qualified: Path{"soapenv:Body", "default:convertLeadResponse", "default:result", "default:errors", "default:statusCode"},
		},
		{
			literal:   Path{"soapenv:Body", "convertLeadResponse", "result", "leadId"},
			qualified: Path{"soapenv:Body", "default:convertLeadResponse", "default:result", "default:leadId"},
		},
		{
			literal:   Path{"soapenv:Body", "convertLeadResponse", "result", "opportunityId"},
			qualified: Path{"soapenv:Body", "default:convertLeadResponse", "default:result", "default:opportunityId"},
		},
		{
			literal:   Path{"soapenv:Header", "LimitInfoHeader", "limitInfo", "type"},
			qualified: Path{"soapenv:Header", "default:LimitInfoHeader", "default:limitInfo", "default:type"},
		},
		{
			literal:   Path{"soapenv:Body", "convertLeadResponse", "missing", "leadId"},
			qualified: Path{"soapenv:Body", "default:convertLeadResponse", "default:missing", "default:leadId"},
		},
	}

	for _, p := range pairs {
		literalValue, literalFound := ValueAt(doc.Root(), p.literal, LiteralMatch)
		qualifiedValue, qualifiedFound := ValueAt(nsRoot, p.qualified, match)
		assert.Equal(t, literalFound, qualifiedFound, p.literal)
		assert.Equal(t, literalValue, qualifiedValue, p.literal)
	}
}

func TestBackendsAgree_LeadingText(t *testing.T) {
	documents := []string{
		`<r><a><?pi x?>text</a></r>`,
		`<r><a>before<?pi x?>after</a></r>`,
		`<r><a><!-- note -->text</a></r>`,
		`<r><a>one<!-- note -->two</a></r>`,
		`<r><a>head<b>child</b>tail</a></r>`,
		`<r><a><![CDATA[raw <text>]]></a></r>`,
		`<r><a></a></r>`,
	}

	for _, data := range documents {
		doc, err := ParseDocument([]byte(data))
		require.NoError(t, err)
		nsRoot, err := ParseNamespaced([]byte(data))
		require.NoError(t, err)

		literalValue, literalFound := ValueAt(doc.Root(), Path{"a"}, LiteralMatch)
		nsValue, nsFound := ValueAt(nsRoot, Path{"a"}, SOAPAliases.Matcher())
		assert.Equal(t, literalFound, nsFound, data)
		assert.Equal(t, literalValue, nsValue, data)
	}
}
