/*
Package world stores rooms and the objects placed in them.

Room photos and object images are kept in their undecoded file formats,
compressed, in a SQLite database so that loading a room always decodes the
photo afresh.
*/
package world

import (
	"bytes"
	"crypto/sha1"
	"database/sql"
	"encoding/xml"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/roomview"
	"github.com/bodgit/roomview/photo"
	"github.com/bodgit/roomview/sprite"
	"github.com/klauspost/compress/zstd"
	_ "github.com/mattn/go-sqlite3" // register sqlite3 driver
)

const (
	kindPhoto  = "photo"
	kindSprite = "sprite"
)

// ErrNoRoom is returned when a room is not in the database.
var ErrNoRoom = errors.New("world: no such room")

// DB is a world database.
type DB struct {
	db *sql.DB

	enc *zstd.Encoder
	dec *zstd.Decoder
}

// Open opens or creates the world database in file.
func Open(file string) (*DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS image (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, kind TEXT NOT NULL, data BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS room (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE, photo_id INTEGER NOT NULL, FOREIGN KEY(photo_id) REFERENCES image(id))"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS object (id INTEGER PRIMARY KEY NOT NULL, room_id INTEGER NOT NULL, name TEXT NOT NULL, image_id INTEGER NOT NULL, x INTEGER NOT NULL, y INTEGER NOT NULL, FOREIGN KEY(room_id) REFERENCES room(id), FOREIGN KEY(image_id) REFERENCES image(id))"); err != nil {
		db.Close()
		return nil, err
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, err
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return nil, err
	}

	return &DB{
		db:  db,
		enc: enc,
		dec: dec,
	}, nil
}

// Close closes the database.
func (db *DB) Close() error {
	db.dec.Close()
	if err := db.enc.Close(); err != nil {
		db.db.Close()
		return err
	}
	return db.db.Close()
}

type xmlWorld struct {
	XMLName xml.Name  `xml:"World"`
	Rooms   []xmlRoom `xml:"Room"`
}

type xmlRoom struct {
	XMLName xml.Name    `xml:"Room"`
	Name    string      `xml:"Name,attr"`
	Photo   string      `xml:"Photo,attr"`
	Objects []xmlObject `xml:"Object"`
}

type xmlObject struct {
	XMLName xml.Name `xml:"Object"`
	Name    string   `xml:"Name,attr"`
	Image   string   `xml:"Image,attr"`
	X       int      `xml:"X,attr"`
	Y       int      `xml:"Y,attr"`
}

// ImportXML replaces the contents of the database with the world described
// in file. Photo and image paths are relative to the directory holding file.
func (db *DB) ImportXML(file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := ioutil.ReadAll(f)
	if err != nil {
		return err
	}

	var w xmlWorld
	if err := xml.Unmarshal(b, &w); err != nil {
		return err
	}

	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"object", "room", "image"} {
		if _, err = tx.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}

	dir := filepath.Dir(file)
	for _, r := range w.Rooms {
		photoID, err := db.addImage(tx, resolve(dir, r.Photo), kindPhoto)
		if err != nil {
			return err
		}

		result, err := tx.Exec("INSERT INTO room (name, photo_id) VALUES (?, ?)", r.Name, photoID)
		if err != nil {
			return err
		}
		roomID, err := result.LastInsertId()
		if err != nil {
			return err
		}

		for _, o := range r.Objects {
			imageID, err := db.addImage(tx, resolve(dir, o.Image), kindSprite)
			if err != nil {
				return err
			}
			if _, err := tx.Exec("INSERT INTO object (room_id, name, image_id, x, y) VALUES (?, ?, ?, ?, ?)", roomID, o.Name, imageID, o.X, o.Y); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func resolve(dir, file string) string {
	return filepath.Join(dir, filepath.Clean(strings.ReplaceAll(file, "\\", string(os.PathSeparator))))
}

func (db *DB) addImage(tx *sql.Tx, file, kind string) (int64, error) {
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return 0, err
	}

	// Refuse anything that won't decode later
	switch kind {
	case kindPhoto:
		_, err = photo.DecodeSource(bytes.NewReader(b))
	case kindSprite:
		_, err = sprite.Decode(bytes.NewReader(b))
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", file, err)
	}

	sha := fmt.Sprintf("%X", sha1.Sum(b))

	var id int64
	switch err := tx.QueryRow("SELECT id FROM image WHERE sha1 = ?", sha).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := tx.Exec("INSERT INTO image (sha1, kind, data) VALUES (?, ?, ?)", sha, kind, db.enc.EncodeAll(b, nil))
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// Rooms returns the names of every room in the database.
func (db *DB) Rooms() ([]string, error) {
	rows, err := db.db.Query("SELECT name FROM room ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (db *DB) image(id int64) ([]byte, error) {
	var data []byte
	if err := db.db.QueryRow("SELECT data FROM image WHERE id = ?", id).Scan(&data); err != nil {
		return nil, err
	}
	return db.dec.DecodeAll(data, nil)
}

// LoadRoom decodes the photo and object images for the named room.
func (db *DB) LoadRoom(name string) (*Room, error) {
	var roomID, photoID int64
	switch err := db.db.QueryRow("SELECT id, photo_id FROM room WHERE name = ?", name).Scan(&roomID, &photoID); err {
	case sql.ErrNoRows:
		return nil, ErrNoRoom
	case nil:
	default:
		return nil, err
	}

	b, err := db.image(photoID)
	if err != nil {
		return nil, err
	}
	p, err := photo.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}

	r := &Room{
		Name:  name,
		photo: p,
	}

	rows, err := db.db.Query("SELECT name, image_id, x, y FROM object WHERE room_id = ? ORDER BY id", roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type placement struct {
		name    string
		imageID int64
		x, y    int
	}
	var placements []placement
	for rows.Next() {
		var pl placement
		if err := rows.Scan(&pl.name, &pl.imageID, &pl.x, &pl.y); err != nil {
			return nil, err
		}
		placements = append(placements, pl)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	images := make(map[int64]*sprite.Image)
	for _, pl := range placements {
		m, ok := images[pl.imageID]
		if !ok {
			b, err := db.image(pl.imageID)
			if err != nil {
				return nil, err
			}
			if m, err = sprite.Decode(bytes.NewReader(b)); err != nil {
				return nil, err
			}
			images[pl.imageID] = m
		}
		r.objects = append(r.objects, &Object{
			Name:  pl.name,
			image: m,
			x:     pl.x,
			y:     pl.y,
		})
	}

	return r, nil
}

// Room is a room loaded from the database. It implements roomview.Room.
type Room struct {
	Name string

	photo   *photo.Photo
	objects []roomview.Object
}

// Photo returns the decoded room photo.
func (r *Room) Photo() *photo.Photo {
	return r.photo
}

// Objects returns the objects placed in the room in the order they were
// imported.
func (r *Room) Objects() []roomview.Object {
	return r.objects
}

// Object returns the named object, or nil.
func (r *Room) Object(name string) *Object {
	for _, o := range r.objects {
		if o := o.(*Object); o.Name == name {
			return o
		}
	}
	return nil
}

// Object is an object placed in a room. It implements roomview.Object.
type Object struct {
	Name string

	image *sprite.Image
	x, y  int
}

// Image returns the decoded object image.
func (o *Object) Image() *sprite.Image {
	return o.image
}

// Position returns where the object is placed in the room.
func (o *Object) Position() (int, int) {
	return o.x, o.y
}

// Move places the object at (x, y). The room must not be drawn while an
// object is being moved.
func (o *Object) Move(x, y int) {
	o.x, o.y = x, y
}
