package mysql

const upsertHotelSQL = `
INSERT INTO cached_hotels
  (hotel_id, tagline, address_line, address_city, address_province, address_country, images, description, fetched_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  tagline          = VALUES(tagline),
  address_line     = VALUES(address_line),
  address_city     = VALUES(address_city),
  address_province = VALUES(address_province),
  address_country  = VALUES(address_country),
  images           = VALUES(images),
  description      = VALUES(description),
  fetched_at       = VALUES(fetched_at)
`

const getHotelSQL = `
SELECT hotel_id, tagline, address_line, address_city, address_province, address_country, images, description, fetched_at
FROM cached_hotels
WHERE hotel_id = ?
`

const upsertRoomOfferSQL = `
INSERT INTO cached_room_offers
  (room_id, hotel_id, name, description, gallery_images, price_amount, price_currency, price_symbol, fetched_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  hotel_id       = VALUES(hotel_id),
  name           = VALUES(name),
  description    = VALUES(description),
  gallery_images = VALUES(gallery_images),
  price_amount   = VALUES(price_amount),
  price_currency = VALUES(price_currency),
  price_symbol   = VALUES(price_symbol),
  fetched_at     = VALUES(fetched_at)
`

const getRoomOfferSQL = `
SELECT room_id, hotel_id, name, description, gallery_images, price_amount, price_currency, price_symbol, fetched_at
FROM cached_room_offers
WHERE room_id = ?
`

// -----------------------------------------------------------------------------
// RESERVATIONS
// -----------------------------------------------------------------------------

// Locks any overlapping non-cancelled reservation the user holds in a
// different hotel. Half-open [checkin, checkout) overlap:
// existing.checkin < new.checkout AND existing.checkout > new.checkin.
// FOR UPDATE serializes two concurrent attempts by the same user.
const selectConflictForUpdateSQL = `
SELECT id, hotel_id
FROM reservations
WHERE user_email = ?
  AND is_cancelled = 0
  AND hotel_id <> ?
  AND checkin_date < ?
  AND checkout_date > ?
ORDER BY created_at
LIMIT 1
FOR UPDATE
`

const insertReservationSQL = `
INSERT INTO reservations
  (id, user_email, hotel_id, room_id, checkin_date, checkout_date, num_days, adults, room_cost, verified, is_cancelled, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?)
`

const reservationColumns = `id, user_email, hotel_id, room_id, checkin_date, checkout_date, num_days, adults, room_cost, verified, is_cancelled, created_at`

const listReservationsSQL = `
SELECT ` + reservationColumns + `
FROM reservations
WHERE user_email = ?
ORDER BY created_at, id
`

const getReservationSQL = `
SELECT ` + reservationColumns + `
FROM reservations
WHERE id = ? AND user_email = ?
`

const updateAdultsSQL = `
UPDATE reservations SET adults = ? WHERE id = ? AND user_email = ?
`

const cancelReservationSQL = `
UPDATE reservations SET is_cancelled = 1 WHERE id = ? AND user_email = ?
`

const verifyReservationSQL = `
UPDATE reservations SET verified = 1 WHERE id = ? AND user_email = ?
`
