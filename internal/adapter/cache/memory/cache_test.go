package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"todoweb/internal/core/port"
)

func TestPageCache_SetAndGet(t *testing.T) {
	RegisterTestingT(t)
	ctx := context.Background()
	pc := NewPageCache()

	page := port.CachedPage{StatusCode: 200, ContentType: "text/html; charset=utf-8", Body: []byte("<h1>To Do app</h1>")}
	Expect(pc.Set(ctx, "page:/:abc", page, time.Minute)).To(Succeed())

	got, found, err := pc.Get(ctx, "page:/:abc")

	Expect(err).ToNot(HaveOccurred())
	Expect(found).To(BeTrue())
	Expect(got).To(Equal(page))
}

func TestPageCache_Miss(t *testing.T) {
	RegisterTestingT(t)

	_, found, err := NewPageCache().Get(context.Background(), "page:/:missing")

	Expect(err).ToNot(HaveOccurred())
	Expect(found).To(BeFalse())
}

func TestPageCache_Expiration(t *testing.T) {
	RegisterTestingT(t)
	ctx := context.Background()
	pc := NewPageCache()

	Expect(pc.Set(ctx, "page:/:abc", port.CachedPage{StatusCode: 200}, 10*time.Millisecond)).To(Succeed())
	time.Sleep(20 * time.Millisecond)

	_, found, _ := pc.Get(ctx, "page:/:abc")
	Expect(found).To(BeFalse())
}

func TestPageCache_DeletePrefix(t *testing.T) {
	RegisterTestingT(t)
	ctx := context.Background()
	pc := NewPageCache()

	pc.Set(ctx, "page:/:one", port.CachedPage{StatusCode: 200}, time.Minute)
	pc.Set(ctx, "page:/:two", port.CachedPage{StatusCode: 200}, time.Minute)
	pc.Set(ctx, "page:/health:one", port.CachedPage{StatusCode: 200}, time.Minute)

	deleted, err := pc.DeletePrefix(ctx, "page:/:")

	Expect(err).ToNot(HaveOccurred())
	Expect(deleted).To(Equal(2))
	Expect(pc.ItemCount()).To(Equal(1))

	_, found, _ := pc.Get(ctx, "page:/health:one")
	Expect(found).To(BeTrue())
}

func TestPageCache_Generations(t *testing.T) {
	RegisterTestingT(t)
	ctx := context.Background()
	pc := NewPageCache()

	generation, err := pc.Generation(ctx, "/")
	Expect(err).ToNot(HaveOccurred())
	Expect(generation).To(BeZero())

	Expect(pc.NextGeneration(ctx, "/")).To(Equal(int64(1)))
	Expect(pc.NextGeneration(ctx, "/")).To(Equal(int64(2)))
	Expect(pc.Generation(ctx, "/")).To(Equal(int64(2)))
	Expect(pc.Generation(ctx, "/health")).To(BeZero())
	Expect(pc.ItemCount()).To(BeZero())
}

func TestPageCache_NextGenerationIsAtomic(t *testing.T) {
	RegisterTestingT(t)
	ctx := context.Background()
	pc := NewPageCache()

	var wg sync.WaitGroup
	for range 50 {
		wg.Go(func() {
			pc.NextGeneration(ctx, "/")
		})
	}
	wg.Wait()

	Expect(pc.Generation(ctx, "/")).To(Equal(int64(50)))
}
