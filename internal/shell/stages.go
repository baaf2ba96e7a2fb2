package shell

import (
	"time"

	"github.com/doneil/portfolio/internal/content"
	"github.com/doneil/portfolio/internal/reveal"
	"github.com/doneil/portfolio/internal/scheduler"
	"github.com/doneil/portfolio/internal/typewriter"
)

// Names of the intro stages, in play order.
const (
	StageName            = "name"
	StageTitle           = "title"
	StageTagline         = "tagline"
	StageLinks           = "links"
	StageAboutHeading    = "about-heading"
	StageAbout           = "about"
	StageSkillsHeading   = "skills-heading"
	StageSkills          = "skills"
	StageProjectsHeading = "projects-heading"
	StageProjects        = "projects"
)

// Timing holds the pacing constants of the page.
type Timing struct {
	TypeInterval  time.Duration
	FrameInterval time.Duration
	StageDelay    time.Duration
	SectionDelay  time.Duration
	FadeHold      time.Duration
}

// DefaultTiming types at 10 runes per second, pauses half a second
// between header lines and a full second before each section.
func DefaultTiming() Timing {
	return Timing{
		TypeInterval:  typewriter.DefaultInterval,
		FrameInterval: scheduler.DefaultFrameInterval,
		StageDelay:    500 * time.Millisecond,
		SectionDelay:  time.Second,
		FadeHold:      600 * time.Millisecond,
	}
}

// IntroStages builds the intro script for a profile: the header lines
// are typed out, then each section heading is typed and its block fades
// in.
func IntroStages(profile content.Profile, timing Timing) []reveal.Stage {
	return []reveal.Stage{
		{Name: StageName, Text: profile.Name},
		{Name: StageTitle, Text: profile.Title, Delay: timing.StageDelay},
		{Name: StageTagline, Text: profile.Tagline, Delay: timing.StageDelay},
		{Name: StageLinks, Delay: timing.StageDelay, Hold: timing.FadeHold},
		{Name: StageAboutHeading, Text: "About", Delay: timing.SectionDelay},
		{Name: StageAbout, Hold: timing.FadeHold},
		{Name: StageSkillsHeading, Text: "Skills", Delay: timing.SectionDelay},
		{Name: StageSkills, Hold: timing.FadeHold},
		{Name: StageProjectsHeading, Text: "Projects", Delay: timing.SectionDelay},
		{Name: StageProjects, Hold: timing.FadeHold},
	}
}
