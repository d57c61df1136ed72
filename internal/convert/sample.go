package convert

// SampleInput is a demo batch: three valid links and one vmess link that
// lacks the required fields.
const SampleInput = `vmess://ewogICJ2IjogIjIiLAogICJwcyI6ICJleGFtcGxlLXZtZXNzIiwKICAiYWRkIjogIjE5Mi4xNjguMS4xIiwKICAicG9ydCI6ICI0NDMiLAogICJpZCI6ICIxMzgwNmFkYi0yMzY4LTRhY2YtYjgwNS00NWI5ZWMyNTI1ZDMiLAogICJhaWQiOiAiMCIsCiAgInNjeSI6ICJhdXRvIiwKICAibmV0IjogIndzIiwKICAidHlwZSI6ICJub25lIiwKICAiaG9zdCI6ICJleGFtcGxlLmNvbSIsCiAgInBhdGgiOiAiL3JheSIsCiAgInRscyI6ICJ0bHMiLAogICJzbmkiOiAiZXhhbXBsZS5jb20iCn0=
vless://13806adb-2368-4acf-b805-45b9ec2525d3@192.168.1.2:443?type=ws&security=tls&path=%2Fray&host=sub.example.com&sni=sub.example.com#example-vless
trojan://password@192.168.1.3:443?sni=another.example.com#example-trojan
vmess://ewogICJwcyI6ICJpbnZhbGlkLWNvbmZpZyIKfQ==`
