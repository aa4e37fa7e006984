package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/tradescout/core"
)

// Key prefixes for different data types
const (
	productPrefix  = "prod"
	productSeq     = "prodseq"
	favoritePrefix = "fav"
)

// makeProductKey generates a key for a product by ID.
func makeProductKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", productPrefix, id))
}

// productKeyPrefix matches every product key and nothing else.
func productKeyPrefix() []byte {
	return []byte(productPrefix + ":")
}

// favoriteKeyPrefix matches every favorite of every user.
func favoriteKeyPrefix() []byte {
	return []byte(favoritePrefix + ":")
}

// makeFavoriteKey generates a composite key for a user's favorite.
// Format: prefix:userID:productID
func makeFavoriteKey(userID, productID core.ID) []byte {
	buf := makePartialFavoriteKey(userID)
	buf = binary.BigEndian.AppendUint64(buf, uint64(productID))
	return buf
}

// makePartialFavoriteKey generates a partial key for listing a user's favorites.
// Format: prefix:userID
func makePartialFavoriteKey(userID core.ID) []byte {
	buf := make([]byte, 0, len(favoritePrefix)+17)
	buf = append(buf, favoriteKeyPrefix()...)
	// Write in BigEndian order so lexicographic sort works correctly
	buf = binary.BigEndian.AppendUint64(buf, uint64(userID))
	return buf
}
