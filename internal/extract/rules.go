package extract

import (
	"regexp"

	"github.com/taherahmed/portfolio-api/internal/domain"
)

// Field patterns are declared as ordered rule lists so they can be tested
// and extended independently of the scanning control flow. Within one list,
// earlier rules win.

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// Loose phone match: optional country code, optional parentheses,
	// space/dot/dash separators.
	phonePattern = regexp.MustCompile(`(\+\d{1,3}[\s-]?)?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}`)
)

// namePatterns are common self-introduction phrasings, most specific first.
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)my name is ([\w\s]+)`),
	regexp.MustCompile(`(?i)i am ([\w\s]+)`),
	regexp.MustCompile(`(?i)i'm ([\w\s]+)`),
	regexp.MustCompile(`(?i)this is ([\w\s]+)`),
	regexp.MustCompile(`(?i)name[:\s]+([\w\s]+)`),
}

// nameFillerPattern strips trailing clauses that often follow a name in a
// self-introduction ("... and I am working on").
var nameFillerPattern = regexp.MustCompile(`(?i)\b(and|I|am|working|looking|for|interested|a|an)\b.*$`)

// companyPatterns are common employer/company phrasings, most specific first.
var companyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)from ([^,.]+? company)`),
	regexp.MustCompile(`(?i)work(?:ing)? (?:for|at) ([^,.]+)`),
	regexp.MustCompile(`(?i)my company (?:is|called) ([^,.]+)`),
	regexp.MustCompile(`(?i)(?:at|with) ([^,.]+? company)`),
	regexp.MustCompile(`(?i)company[:\s]+([^,.]+)`),
}

// categoryRule maps a keyword alternation to a project category.
type categoryRule struct {
	pattern *regexp.Regexp
	project domain.ProjectType
}

// categoryRules classify project type; the first matching rule wins.
var categoryRules = []categoryRule{
	{regexp.MustCompile(`(?i)\b(?:website|web app|web application|site|homepage|landing page|portfolio site|e-commerce site|blog)\b`), domain.ProjectWebsite},
	{regexp.MustCompile(`(?i)\b(?:mobile app|ios app|android app|flutter app|react native|app development)\b`), domain.ProjectMobileApp},
	{regexp.MustCompile(`(?i)\b(?:desktop app|desktop application|windows app|mac app|electron)\b`), domain.ProjectDesktopApp},
	{regexp.MustCompile(`(?i)\b(?:ai|artificial intelligence|machine learning|ml model|chatbot|virtual assistant|llm)\b`), domain.ProjectAISolution},
	{regexp.MustCompile(`(?i)\b(?:e-commerce|online store|shop|selling online|product catalog|payment gateway)\b`), domain.ProjectEcommerce},
	{regexp.MustCompile(`(?i)\b(?:crm|customer relationship|cms|content management|erp|business management)\b`), domain.ProjectBusinessSystem},
}

// projectKeywords are generic terms that mark a conversation as
// project-related even when no specific category matches.
var projectKeywords = []string{
	"project", "app", "website", "application", "development", "build",
	"create", "design", "develop", "software", "mobile", "web", "system",
	"platform", "portal", "e-commerce", "startup", "idea", "business",
	"plan", "concept", "proposal", "service", "product", "solution",
}
