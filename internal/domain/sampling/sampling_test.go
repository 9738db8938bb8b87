package sampling_test

import (
	"math"
	"testing"

	sampling "github.com/okian/sourceqa/internal/domain/sampling"
	. "github.com/smartystreets/goconvey/convey"
)

func TestReservoir(t *testing.T) {
	Convey("Given a list of distinct items", t, func() {
		items := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
		src := sampling.Seeded(7)

		Convey("When k is smaller than the list", func() {
			got := sampling.Reservoir(items, 3, src)

			Convey("Then exactly k distinct items from the list are returned", func() {
				So(got, ShouldHaveLength, 3)
				seen := map[int]bool{}
				for _, v := range got {
					So(items, ShouldContain, v)
					So(seen[v], ShouldBeFalse)
					seen[v] = true
				}
			})
		})

		Convey("When k exceeds the list", func() {
			got := sampling.Reservoir(items, 50, src)

			Convey("Then every item is returned once", func() {
				So(got, ShouldHaveLength, len(items))
				So(got, ShouldResemble, items)
			})
		})

		Convey("When k is zero or the list is empty", func() {
			So(sampling.Reservoir(items, 0, src), ShouldBeEmpty)
			So(sampling.Reservoir([]int{}, 3, src), ShouldBeEmpty)
		})

		Convey("When sampling does not mutate the input", func() {
			before := append([]int(nil), items...)
			_ = sampling.Reservoir(items, 3, src)
			So(items, ShouldResemble, before)
		})

		Convey("When a nil source is given", func() {
			So(sampling.Reservoir(items, 4, nil), ShouldHaveLength, 4)
		})
	})

	Convey("Given many draws of 3 out of 10", t, func() {
		const runs = 60000
		items := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
		src := sampling.Seeded(42)
		counts := make([]int, len(items))
		for r := 0; r < runs; r++ {
			for _, v := range sampling.Reservoir(items, 3, src) {
				counts[v]++
			}
		}

		Convey("Then each item's frequency converges to 3/10", func() {
			for _, c := range counts {
				freq := float64(c) / runs
				So(math.Abs(freq-0.3), ShouldBeLessThan, 0.015)
			}
		})
	})
}
