package rowindex_test

import (
	"testing"

	"github.com/okian/sourceqa/internal/domain/model"
	rowindex "github.com/okian/sourceqa/internal/domain/rowindex"
	. "github.com/smartystreets/goconvey/convey"
)

func row(name, owner, identity, reviewed string) model.Row {
	return model.Row{Name: name, Owner: owner, IdentityURL: identity, Reviewed: reviewed}
}

func TestFindMatchingRows(t *testing.T) {
	Convey("Given a sheet with one claimable row among reviewed duplicates", t, func() {
		rows := []model.Row{
			row("Ann Lee", "", "", "yes"),
			row("Bob Ray", "", "", ""),
			row("Ann Lee", "", "", "YES"),
			row("Ann Lee", "", "", "no"),
			row("Ann Lee", "", "", ""),
		}

		Convey("When looking the name up", func() {
			got := rowindex.FindMatchingRows(rows, model.Identity{Name: "Ann Lee", URL: "whatever"})

			Convey("Then only the first claimable row is returned", func() {
				So(got, ShouldResemble, []int{3})
			})
		})
	})

	Convey("Given a sheet where the candidate is already owned twice", t, func() {
		rows := []model.Row{
			row("Ann Lee", "AB", "https%3A%2F%2Flinkedin.com%2Fin%2Fann&trk=1", ""),
			row("Ann Lee", "CD", "https://other", ""),
			row("Ann Lee", "AB", "https%3A%2F%2Flinkedin.com%2Fin%2Fann", "yes"),
			row("Ann Lea", "AB", "https%3A%2F%2Flinkedin.com%2Fin%2Fann", ""),
		}

		Convey("When looking up by name and encoded URL", func() {
			got := rowindex.FindMatchingRows(rows, model.Identity{
				Name: "Ann Lee",
				URL:  "https%3A%2F%2Flinkedin.com%2Fin%2Fann",
			})

			Convey("Then every duplicate is returned in scan order", func() {
				So(got, ShouldResemble, []int{0, 2})
			})
		})

		Convey("When the URL is empty", func() {
			got := rowindex.FindMatchingRows(rows, model.Identity{Name: "Ann Lee"})

			Convey("Then nothing matches", func() {
				So(got, ShouldBeEmpty)
			})
		})

		Convey("When the name is unknown", func() {
			got := rowindex.FindMatchingRows(rows, model.Identity{Name: "Zed", URL: "https://other"})
			So(got, ShouldBeEmpty)
		})
	})
}

func TestNormalizeProfileURL(t *testing.T) {
	Convey("Given stored profile URLs", t, func() {
		So(rowindex.NormalizeProfileURL("https%3A%2F%2Fli.com%2Fin%2Fx"), ShouldEqual, "https://li.com/in/x")
		So(rowindex.NormalizeProfileURL("https%3A%2F%2Fli.com%2Fin%2Fx&utm=1"), ShouldEqual, "https://li.com/in/x")
		So(rowindex.NormalizeProfileURL("&&a+b=c"), ShouldEqual, "a b")
		So(rowindex.NormalizeProfileURL("bad%zz"), ShouldEqual, "bad%zz")
		So(rowindex.NormalizeProfileURL(""), ShouldEqual, "")
	})
}
