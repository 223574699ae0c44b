package assets

import "context"

// Catalog is the narrow view of the store the generation orchestrator
// works with: pictures in, picture references out.
type Catalog struct {
	store *Store
}

func NewCatalog(store *Store) *Catalog {
	return &Catalog{store: store}
}

func (c *Catalog) HasExistingPicture(ctx context.Context, word, language string) (bool, error) {
	return c.store.HasExistingPicture(ctx, word, language)
}

// SelectPicture returns the chosen variant as an inline data URL.
func (c *Catalog) SelectPicture(ctx context.Context, word, language string) (string, error) {
	variant, err := c.store.SelectVariant(ctx, word, language)
	if err != nil {
		return "", err
	}
	return EncodeDataURL(variant.Data), nil
}

// StoreGenerated appends a machine-generated image for the word.
func (c *Catalog) StoreGenerated(ctx context.Context, word, language string, image []byte) error {
	_, err := c.store.AppendVariant(ctx, word, language, image, false, nil)
	return err
}
