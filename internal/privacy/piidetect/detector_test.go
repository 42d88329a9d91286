package piidetect

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type DetectorSuite struct {
	suite.Suite
	det *Detector
}

func (s *DetectorSuite) SetupTest() {
	s.det = New()
}

func TestDetectorSuite(t *testing.T) {
	suite.Run(t, new(DetectorSuite))
}

func (s *DetectorSuite) TestCleanTextPassesThrough() {
	in := "Lectures were clear and the grading felt fair."
	res := s.det.Scan(in)
	s.False(res.HasPersonalInfo)
	s.Equal(in, res.Redacted)
	s.Empty(res.Categories)
}

func (s *DetectorSuite) TestEmailRedaction() {
	emailShape := regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	for _, in := range []string{
		"reach me at jane.doe@example.com if you want notes",
		"contact: j+reviews@sub.uni.edu thanks",
	} {
		res := s.det.Scan(in)
		s.True(res.HasPersonalInfo, in)
		s.Contains(res.Redacted, "[email removed]")
		s.False(emailShape.MatchString(res.Redacted), "no email-shaped substring may remain: %q", res.Redacted)
		s.Equal([]Category{CategoryEmail}, res.Categories)
	}
}

func (s *DetectorSuite) TestPhoneShapes() {
	for _, in := range []string{
		"text 555-123-4567 anytime",
		"text 555.123.4567 anytime",
		"text 555 123 4567 anytime",
		"text (555) 123-4567 anytime",
		"text +1 555 123 4567 anytime",
		"text 5551234567 anytime",
	} {
		res := s.det.Scan(in)
		s.True(res.HasPersonalInfo, in)
		s.Contains(res.Redacted, "[phone number removed]", in)
		s.Contains(res.Categories, CategoryPhone)
	}
}

func (s *DetectorSuite) TestBareDigitRunGuard() {
	// 10 digits embedded in a longer numeric string must not match.
	res := s.det.Scan("order number 123456789012345")
	s.NotContains(res.Redacted, "[phone number removed]")
}

func (s *DetectorSuite) TestNameIndicators() {
	for _, in := range []string{
		"my name is Alice and I loved this class",
		"I'm Bob Smith by the way",
		"this is Carol speaking",
		"call me Dave",
		"signed Erin",
		"hi Frank here",
	} {
		res := s.det.Scan(in)
		s.True(res.HasPersonalInfo, in)
		s.Contains(res.Redacted, "[name removed]", in)
		s.Contains(res.Categories, CategoryName)
	}

	// Phrase is case-insensitive but the captured name is not.
	res := s.det.Scan("call me maybe")
	s.False(res.HasPersonalInfo)
}

func (s *DetectorSuite) TestIDShapes() {
	for _, in := range []string{
		"student id: 12345 was on the roster",
		"uid 999999",
		"id 123456 if you need it",
		"badge #123456",
		"my login is abc12345",
		"section 12345x",
	} {
		res := s.det.Scan(in)
		s.True(res.HasPersonalInfo, in)
		s.Contains(res.Redacted, "[ID number removed]", in)
		s.Contains(res.Categories, CategoryID)
	}
}

// TestNameAndPhoneScenario is the canonical multi-category case: both
// categories fire, both placeholders appear, and no digits forming the
// original phone shape survive.
func (s *DetectorSuite) TestNameAndPhoneScenario() {
	res := s.det.Scan("Call me John, my number is 555-123-4567")

	s.True(res.HasPersonalInfo)
	s.Contains(res.Redacted, "[name removed]")
	s.Contains(res.Redacted, "[phone number removed]")
	s.NotContains(res.Redacted, "John")
	s.False(strings.ContainsAny(res.Redacted, "0123456789"))
	s.Equal([]Category{CategoryPhone, CategoryName}, res.Categories)
}

// TestSequentialRedactionOrder pins the running-text behavior: the phone pass
// consumes a bare 10-digit run before the ID pass ever sees it, so a
// "student id 5551234567" line is reported as phone, not ID.
func (s *DetectorSuite) TestSequentialRedactionOrder() {
	res := s.det.Scan("student id 5551234567")

	s.True(res.HasPersonalInfo)
	s.Contains(res.Redacted, "[phone number removed]")
	s.Equal([]Category{CategoryPhone}, res.Categories)
}

func (s *DetectorSuite) TestDeterminism() {
	in := "I'm Jane, email jane@uni.edu, call 555-123-4567, id 123456"
	first := s.det.Scan(in)
	for range 5 {
		s.Equal(first, s.det.Scan(in))
	}
}
