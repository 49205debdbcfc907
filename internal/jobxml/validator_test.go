package jobxml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-job-composer/internal/jobmodel"
)

const header = `<?xml version="1.0" encoding="UTF-8"?>
<job id="J" xmlns="http://xmlns.jcp.org/xml/ns/javaee" version="1.0">
`

// doc wraps body in a well-formed job element.
func doc(body string) string {
	return header + body + "</job>\n"
}

func messages(errs []ValidationError) string {
	var parts []string
	for _, e := range errs {
		parts = append(parts, e.Message)
	}
	return strings.Join(parts, "\n")
}

func TestValidateParseFailure(t *testing.T) {
	for name, input := range map[string]string{
		"empty":      "",
		"unclosed":   header + `<step id="a">`,
		"mismatched": header + "<step></flow></job>",
		"two roots":  "<job/><job/>",
		"not xml":    "hello",
	} {
		t.Run(name, func(t *testing.T) {
			result := Validate(input)
			assert.False(t, result.IsValid)
			require.Len(t, result.Errors, 1)
			assert.Equal(t, CategoryStructure, result.Errors[0].Category)
			assert.True(t, strings.HasPrefix(result.Errors[0].Message, "Invalid XML structure"))
			assert.Empty(t, result.Warnings)
		})
	}
}

func TestValidateRoot(t *testing.T) {
	t.Run("wrong tag", func(t *testing.T) {
		result := Validate(`<batch xmlns="http://xmlns.jcp.org/xml/ns/javaee" version="1.0"/>`)
		require.NotEmpty(t, result.ErrorsIn(CategoryStructure))
		assert.Contains(t, result.ErrorsIn(CategoryStructure)[0].Message, "<job>")
	})

	t.Run("missing namespace", func(t *testing.T) {
		result := Validate(`<job id="J" version="1.0"/>`)
		require.Len(t, result.ErrorsIn(CategoryNamespace), 1)
		assert.Contains(t, result.ErrorsIn(CategoryNamespace)[0].Message, "missing")
	})

	t.Run("wrong namespace", func(t *testing.T) {
		result := Validate(`<job id="J" xmlns="urn:other" version="1.0"/>`)
		require.Len(t, result.ErrorsIn(CategoryNamespace), 1)
		assert.Contains(t, result.ErrorsIn(CategoryNamespace)[0].Message, "urn:other")
	})

	t.Run("version", func(t *testing.T) {
		result := Validate(`<job id="J" xmlns="http://xmlns.jcp.org/xml/ns/javaee"/>`)
		assert.Contains(t, messages(result.Errors), "missing the version")

		result = Validate(`<job id="J" xmlns="http://xmlns.jcp.org/xml/ns/javaee" version="2.0"/>`)
		assert.Contains(t, messages(result.Errors), `found "2.0"`)
	})

	t.Run("disallowed child", func(t *testing.T) {
		result := Validate(doc("<batchlet ref=\"com.example.B\"/>\n"))
		assert.False(t, result.IsValid)
		assert.Contains(t, messages(result.ErrorsIn(CategoryStructure)), "<batchlet> is not allowed")
	})
}

func TestValidateStepStructure(t *testing.T) {
	result := Validate(doc(`<step id="empty"></step>`))
	assert.False(t, result.IsValid)
	assert.Contains(t, messages(result.ErrorsIn(CategoryStructure)), `Step "empty" must contain`)

	result = Validate(doc(`<flow><step id="s"><batchlet ref="com.example.B"/></step></flow>`))
	assert.Contains(t, messages(result.ErrorsIn(CategoryStructure)), "Flow element is missing")

	result = Validate(doc(`<decision id="d"></decision>`))
	msgs := messages(result.ErrorsIn(CategoryStructure))
	assert.Contains(t, msgs, "<decider>")
	assert.Contains(t, msgs, "at least one transition")
}

func TestValidateDuplicateIDs(t *testing.T) {
	dup := doc(`<step id="same"><batchlet ref="com.example.A"/></step>
<step id="same"><batchlet ref="com.example.B"/></step>
`)
	result := Validate(dup)
	assert.False(t, result.IsValid)
	content := result.ErrorsIn(CategoryContent)
	require.NotEmpty(t, content)
	assert.Contains(t, messages(content), `"same"`)

	unique := strings.Replace(dup, `id="same"><batchlet ref="com.example.B"`, `id="other"><batchlet ref="com.example.B"`, 1)
	result = Validate(unique)
	assert.True(t, result.IsValid, messages(result.Errors))
	assert.NotContains(t, messages(result.Errors), "Duplicate")
}

func TestValidateEmptyIDAndClassRefs(t *testing.T) {
	result := Validate(doc(`<step id=""><batchlet ref="myBatchlet"/></step>`))
	msgs := messages(result.ErrorsIn(CategoryContent))
	assert.Contains(t, msgs, "empty id")
	assert.Contains(t, msgs, `"myBatchlet"`)

	for _, ref := range []string{"com.example.MyBatchlet", "org.acme.batch.Step$Inner", "a.B"} {
		result := Validate(doc(`<step id="s"><batchlet ref="` + ref + `"/></step>`))
		assert.True(t, result.IsValid, "%s: %s", ref, messages(result.Errors))
	}
}

func TestValidateAttributeDomains(t *testing.T) {
	bad := Validate(doc(`<step id="s" restartable="maybe"><batchlet ref="com.example.B"/></step>`))
	attrs := bad.ErrorsIn(CategoryAttribute)
	require.Len(t, attrs, 1)
	assert.Contains(t, attrs[0].Message, "restartable")
	assert.Equal(t, "step", attrs[0].Element)

	for _, v := range []string{"true", "false"} {
		ok := Validate(doc(`<step id="s" restartable="` + v + `"><batchlet ref="com.example.B"/></step>`))
		assert.Empty(t, ok.ErrorsIn(CategoryAttribute))
	}

	chunk := func(attrs string) string {
		return doc(`<step id="s"><chunk ` + attrs + `><reader ref="com.example.R"/><writer ref="com.example.W"/></chunk></step>`)
	}
	assert.Empty(t, Validate(chunk(`item-count="10" skip-limit="0" retry-limit="3"`)).ErrorsIn(CategoryAttribute))
	assert.Len(t, Validate(chunk(`item-count="0"`)).ErrorsIn(CategoryAttribute), 1)
	assert.Len(t, Validate(chunk(`item-count="ten"`)).ErrorsIn(CategoryAttribute), 1)
	assert.Len(t, Validate(chunk(`skip-limit="-1"`)).ErrorsIn(CategoryAttribute), 1)
	assert.Len(t, Validate(chunk(`time-limit="" retry-limit="x"`)).ErrorsIn(CategoryAttribute), 2)
}

func TestValidateChunkReaderWriter(t *testing.T) {
	noWriter := doc(`<step id="s"><chunk checkpoint-policy="item"><reader ref="com.example.R"/></chunk></step>`)
	result := Validate(noWriter)
	assert.False(t, result.IsValid)
	content := result.ErrorsIn(CategoryContent)
	require.Len(t, content, 1)
	assert.Contains(t, content[0].Message, "chunk")
	assert.Contains(t, content[0].Message, "<writer>")

	withWriter := strings.Replace(noWriter, "</chunk>", `<writer ref="com.example.W"/></chunk>`, 1)
	result = Validate(withWriter)
	assert.True(t, result.IsValid, messages(result.Errors))
	assert.NotContains(t, messages(result.Errors), "<writer>")
}

func TestValidateWarningsDoNotAffectValidity(t *testing.T) {
	result := Validate(Generate(testJob()))
	assert.True(t, result.IsValid)
	assert.GreaterOrEqual(t, len(result.WarningsIn(CategoryBestPractice)), 2)
}

func TestValidateBestPracticeWarnings(t *testing.T) {
	body := `<properties><property name="a" value="1"/></properties>
<listeners><listener ref="com.example.L"/></listeners>
<step id="s"><chunk><reader ref="com.example.R"/><processor ref="com.example.P"/><writer ref="com.example.W"/></chunk><next on="*" to="missing"/></step>
<split id="sp"><flow id="f"><step id="f1"><batchlet ref="com.example.B"/></step></flow></split>
`
	result := Validate(doc(body))
	assert.True(t, result.IsValid, messages(result.Errors))

	var elements []string
	for _, w := range result.Warnings {
		assert.Equal(t, CategoryBestPractice, w.Category)
		elements = append(elements, w.Element)
	}
	assert.ElementsMatch(t, []string{"chunk", "processor", "next", "split"}, elements)
}

func TestValidateRoundTrip(t *testing.T) {
	cfg := &jobmodel.JobConfiguration{ID: "ROUND_TRIP"}
	for i, name := range []string{"alpha", "beta", "gamma"} {
		cfg.Steps = append(cfg.Steps, &jobmodel.BatchletStep{
			Name:          name,
			BatchletClass: "com.example.Batchlet" + strings.ToUpper(name[:1]),
			Transitions:   []jobmodel.Transition{{On: "COMPLETED", Action: jobmodel.ActionNext, To: "route"}},
		})
		cfg.Steps = append(cfg.Steps, &jobmodel.DecisionStep{
			Name:         "route_" + name,
			DeciderClass: "com.example.Decider",
			Transitions:  []jobmodel.Transition{{On: "*", Action: jobmodel.TransitionAction([]string{"end", "fail", "stop"}[i])}},
		})
	}

	result := Validate(Generate(cfg))
	assert.True(t, result.IsValid, messages(result.Errors))
	assert.Empty(t, result.Errors)
}
