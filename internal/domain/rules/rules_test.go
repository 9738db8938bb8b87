package rules_test

import (
	"regexp"
	"testing"

	"github.com/okian/sourceqa/internal/domain/model"
	rules "github.com/okian/sourceqa/internal/domain/rules"
	. "github.com/smartystreets/goconvey/convey"
)

func TestArrayToRegex(t *testing.T) {
	Convey("Given allow-list values", t, func() {
		So(rules.ArrayToRegex([]string{" Tech  University ", "MIT"}, false), ShouldEqual, `(Tech\s+University)|(MIT)`)
		So(rules.ArrayToRegex([]string{"go", "machine learning"}, true), ShouldEqual, `(\Wgo\W)|(\Wmachine\s+learning\W)`)
		So(rules.ArrayToRegex(nil, true), ShouldEqual, "")
	})
}

func TestSkillsPattern(t *testing.T) {
	Convey("Given skill names with regex metacharacters", t, func() {
		got := rules.SkillsPattern([]string{".Net", "C++", "Node JS"})

		Convey("Then names are escaped and bounded", func() {
			So(got, ShouldEqual, `(?:(\.net\b)|(\bc\+\+\b)|(\bnode\s+js\b))`)
		})

		Convey("Then the pattern compiles and matches whole words", func() {
			re := regexp.MustCompile(got)
			So(re.MatchString("senior .net developer"), ShouldBeTrue)
			So(re.MatchString("loves node   js"), ShouldBeTrue)
			So(re.MatchString("nodejs"), ShouldBeFalse)
		})
	})

	Convey("Given no skills", t, func() {
		So(rules.SkillsPattern(nil), ShouldEqual, "(?:)")
	})
}

func TestVisible(t *testing.T) {
	Convey("Given jobs owned by different sourcers", t, func() {
		jobs := []model.JobRule{
			{Title: "Go", Owners: []string{"AB"}, Skills: []string{"go"}},
			{Title: "Rust", Owners: []string{"CD"}, Universities: []string{"MIT"}},
		}

		Convey("When a sourcer asks", func() {
			got := rules.Visible(jobs, "AB", false)

			So(got, ShouldHaveLength, 1)
			So(got[0].Title, ShouldEqual, "Go")
			So(got[0].SkillsRegex, ShouldEqual, `(\Wgo\W)`)
		})

		Convey("When an admin asks", func() {
			got := rules.Visible(jobs, "ZZ", true)

			So(got, ShouldHaveLength, 2)
			So(got[1].UniversitiesRegex, ShouldEqual, "(MIT)")
		})

		Convey("When an unknown sourcer asks", func() {
			So(rules.Visible(jobs, "XY", false), ShouldBeEmpty)
		})
	})
}
