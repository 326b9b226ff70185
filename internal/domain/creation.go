package domain

import "time"

// Kind enumerates the supported generation categories. The set is closed:
// dispatch over kinds must handle every constant so adding one is a
// compile-visible change.
type Kind string

const (
	KindArticle          Kind = "article"
	KindBlogTitle        Kind = "blog-title"
	KindImage            Kind = "image"
	KindRemoveBackground Kind = "remove-background"
	KindRemoveObject     Kind = "remove-object"
	KindResumeReview     Kind = "resume-review"
)

// Kinds lists every valid generation kind.
func Kinds() []Kind {
	return []Kind{
		KindArticle,
		KindBlogTitle,
		KindImage,
		KindRemoveBackground,
		KindRemoveObject,
		KindResumeReview,
	}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindArticle, KindBlogTitle, KindImage, KindRemoveBackground, KindRemoveObject, KindResumeReview:
		return true
	}
	return false
}

// PremiumOnly reports whether the kind requires a premium plan.
func (k Kind) PremiumOnly() bool {
	switch k {
	case KindImage, KindRemoveBackground, KindRemoveObject, KindResumeReview:
		return true
	case KindArticle, KindBlogTitle:
		return false
	}
	return false
}

// ProducesMedia reports whether the kind yields a media URL rather than text.
func (k Kind) ProducesMedia() bool {
	switch k {
	case KindImage, KindRemoveBackground, KindRemoveObject:
		return true
	case KindArticle, KindBlogTitle, KindResumeReview:
		return false
	}
	return false
}

// Creation is one persisted unit of generated content. Records are inserted
// exactly once at the end of a successful workflow run and are never updated
// afterwards except for the likes set.
type Creation struct {
	ID          string
	OwnerID     string
	Prompt      string
	Kind        Kind
	TextContent string
	MediaURL    string
	Published   bool
	Likes       []string
	CreatedAt   time.Time
}

// LikedBy reports whether userID is a member of the likes set.
func (c Creation) LikedBy(userID string) bool {
	for _, id := range c.Likes {
		if id == userID {
			return true
		}
	}
	return false
}
