package jobxml

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/deploymenttheory/go-job-composer/internal/common/xmlutil"
)

// classRefPattern matches a fully qualified class name: lowercase dotted package, capitalized class.
var classRefPattern = regexp.MustCompile(`^([a-z_][a-z0-9_]*\.)+[A-Z][A-Za-z0-9_$]*$`)

var allowedRootChildren = map[string]bool{
	"properties": true,
	"listeners":  true,
	"step":       true,
	"flow":       true,
	"split":      true,
	"decision":   true,
}

var booleanAttrs = []string{"restartable", "abstract", "allow-start-if-complete"}

// positiveIntAttrs must hold an integer >= 1, nonNegativeIntAttrs an integer >= 0.
var (
	positiveIntAttrs    = []string{"start-limit", "item-count", "time-limit", "partitions"}
	nonNegativeIntAttrs = []string{"skip-limit", "retry-limit"}
)

// Validate parses document and checks it against the structure, content, attribute and
// best-practice rules. It never panics or returns an error: a document that does not
// parse yields a single structure error and nothing else.
func Validate(document string) ValidationResult {
	root, err := xmlutil.ParseTree(document)
	if err != nil {
		c := &collector{}
		c.fail(CategoryStructure, "", "Invalid XML structure: "+err.Error())
		return c.result()
	}

	c := &collector{}
	checkStructure(root, c)
	checkContent(root, c)
	checkAttributes(root, c)
	checkBestPractices(root, c)
	return c.result()
}

func checkStructure(root *xmlutil.Node, c *collector) {
	if root.Tag() != RootTag {
		c.fail(CategoryStructure, root.Tag(), fmt.Sprintf("Root element must be <%s>, found <%s>", RootTag, root.Tag()))
	}

	switch ns := root.Name.Space; {
	case ns == "":
		c.fail(CategoryNamespace, root.Tag(), fmt.Sprintf("Root element is missing the namespace declaration %q", Namespace))
	case ns != Namespace:
		c.fail(CategoryNamespace, root.Tag(), fmt.Sprintf("Root element namespace must be %q, found %q", Namespace, ns))
	}

	if version, ok := root.Attr("version"); !ok {
		c.fail(CategoryStructure, root.Tag(), "Root element is missing the version attribute")
	} else if version != Version {
		c.fail(CategoryStructure, root.Tag(), fmt.Sprintf("Root element version must be %q, found %q", Version, version))
	}

	for _, child := range root.Children {
		if !allowedRootChildren[child.Tag()] {
			c.fail(CategoryStructure, child.Tag(), fmt.Sprintf("Element <%s> is not allowed directly under <%s>", child.Tag(), root.Tag()))
		}
	}

	root.Walk(func(n *xmlutil.Node) {
		switch n.Tag() {
		case "step":
			if !n.HasChild("batchlet") && !n.HasChild("chunk") {
				c.fail(CategoryStructure, "step", fmt.Sprintf("Step %s must contain a <batchlet> or <chunk> element", describe(n)))
			}
		case "flow":
			if _, ok := n.Attr("id"); !ok {
				c.fail(CategoryStructure, "flow", "Flow element is missing the required id attribute")
			}
		case "decision":
			if !n.HasChild("decider") {
				c.fail(CategoryStructure, "decision", fmt.Sprintf("Decision %s must contain a <decider> element", describe(n)))
			}
			if !hasTransition(n) {
				c.fail(CategoryStructure, "decision", fmt.Sprintf("Decision %s must declare at least one transition", describe(n)))
			}
		}
	})
}

func checkContent(root *xmlutil.Node, c *collector) {
	seen := make(map[string]bool)
	root.Walk(func(n *xmlutil.Node) {
		if id, ok := n.Attr("id"); ok {
			switch {
			case id == "":
				c.fail(CategoryContent, n.Tag(), fmt.Sprintf("Element <%s> has an empty id", n.Tag()))
			case seen[id]:
				c.fail(CategoryContent, n.Tag(), fmt.Sprintf("Duplicate id %q on <%s>", id, n.Tag()))
			default:
				seen[id] = true
			}
		}

		if ref, ok := n.Attr("ref"); ok && !classRefPattern.MatchString(ref) {
			c.fail(CategoryContent, n.Tag(), fmt.Sprintf("Invalid class reference %q on <%s>: expected a fully qualified class name such as com.example.MyClass", ref, n.Tag()))
		}

		if n.Tag() == "chunk" {
			for _, required := range []string{"reader", "writer"} {
				if !n.HasChild(required) {
					c.fail(CategoryContent, "chunk", fmt.Sprintf("<chunk> in step %s is missing a <%s> element", describe(n.Ancestor("step")), required))
				}
			}
		}
	})
}

func checkAttributes(root *xmlutil.Node, c *collector) {
	root.Walk(func(n *xmlutil.Node) {
		for _, name := range booleanAttrs {
			if v, ok := n.Attr(name); ok && v != "true" && v != "false" {
				c.fail(CategoryAttribute, n.Tag(), fmt.Sprintf("Attribute %s on <%s> must be \"true\" or \"false\", found %q", name, n.Tag(), v))
			}
		}
		for _, name := range positiveIntAttrs {
			if v, ok := n.Attr(name); ok {
				if i, err := strconv.Atoi(v); err != nil || i < 1 {
					c.fail(CategoryAttribute, n.Tag(), fmt.Sprintf("Attribute %s on <%s> must be an integer >= 1, found %q", name, n.Tag(), v))
				}
			}
		}
		for _, name := range nonNegativeIntAttrs {
			if v, ok := n.Attr(name); ok {
				if i, err := strconv.Atoi(v); err != nil || i < 0 {
					c.fail(CategoryAttribute, n.Tag(), fmt.Sprintf("Attribute %s on <%s> must be an integer >= 0, found %q", name, n.Tag(), v))
				}
			}
		}
	})
}

func checkBestPractices(root *xmlutil.Node, c *collector) {
	if !root.HasChild("properties") {
		c.warn(CategoryBestPractice, root.Tag(), "Job declares no <properties>; job-level properties make the job easier to parameterize")
	}
	if !root.HasChild("listeners") {
		c.warn(CategoryBestPractice, root.Tag(), "Job declares no <listeners>; a job listener helps with monitoring and auditing")
	}

	ids := make(map[string]bool)
	root.Walk(func(n *xmlutil.Node) {
		if id, ok := n.Attr("id"); ok {
			ids[id] = true
		}
	})

	root.Walk(func(n *xmlutil.Node) {
		switch n.Tag() {
		case "chunk":
			if _, ok := n.Attr("checkpoint-policy"); !ok {
				c.warn(CategoryBestPractice, "chunk", fmt.Sprintf("<chunk> in step %s has no checkpoint-policy; checkpointing makes restarts resume mid-step", describe(n.Ancestor("step"))))
			}
		case "processor":
			chunk := n.Ancestor("chunk")
			if chunk != nil && !chunk.HasChild("skippable-exception-classes") && !chunk.HasChild("retryable-exception-classes") {
				c.warn(CategoryBestPractice, "processor", fmt.Sprintf("<processor> in step %s has no skippable or retryable exception classes configured", describe(chunk.Ancestor("step"))))
			}
		case "split":
			if flows := countChildren(n, "flow"); flows < 2 {
				c.warn(CategoryBestPractice, "split", fmt.Sprintf("Split %s has %d flow(s); a split only runs work in parallel with two or more", describe(n), flows))
			}
		case "next":
			if to, ok := n.Attr("to"); ok && to != "" && !ids[to] {
				c.warn(CategoryBestPractice, "next", fmt.Sprintf("Transition target %q does not match any element id in the document", to))
			}
		}
	})
}

func hasTransition(n *xmlutil.Node) bool {
	for _, tag := range []string{"next", "end", "fail", "stop"} {
		if n.HasChild(tag) {
			return true
		}
	}
	return false
}

func countChildren(n *xmlutil.Node, tag string) int {
	count := 0
	for _, child := range n.Children {
		if child.Tag() == tag {
			count++
		}
	}
	return count
}

// describe names an element by its id for messages.
func describe(n *xmlutil.Node) string {
	if n == nil {
		return "(unknown)"
	}
	if id, ok := n.Attr("id"); ok && id != "" {
		return strconv.Quote(id)
	}
	return "(no id)"
}
